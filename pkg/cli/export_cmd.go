package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var (
		flags stateFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted rows as CSV",
		Long: `Export writes every row that passes the column filters, in sort order.
Without --out the file is named query-results-YYYY-MM-DD[-filtered].csv in the
current directory. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.values()
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), rt, q)
			if err != nil {
				return err
			}
			name, body := s.Export()
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", len(s.Rows()), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Output file, or - for stdout")
	return cmd
}
