package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/explorer"
)

func newExploreCmd(rt *runtime) *cobra.Command {
	var (
		flags stateFlags
		base  string
	)
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore results interactively",
		Long: `Explore opens an interactive session. Flags seed the draft and run it when
they carry filters or grouping; otherwise type "run". Type "help" for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.values()
			if err != nil {
				return err
			}
			view, err := explorer.ParseViewParams(q)
			if err != nil {
				return err
			}
			location := base
			if enc := q.Encode(); enc != "" {
				location += "?" + enc
			}
			s := explorer.NewSession(rt.client,
				explorer.WithLocation(domain.NewLocation(location)),
				explorer.WithLogger(rt.logger),
			)
			r := &repl{s: s, out: cmd.OutOrStdout()}
			ctx := cmd.Context()
			if err := s.Start(ctx); err != nil {
				printReplError(r.out, err)
			}
			if err := s.ApplyView(ctx, view); err != nil {
				printReplError(r.out, err)
			}
			_ = r.showPage()
			return runPrompt(cmd, r)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&base, "base", "", "Base URL used for share links")
	return cmd
}

func runPrompt(cmd *cobra.Command, r *repl) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeLine)

	histPath := filepath.Join(ConfigDir(), "history")
	if f, err := os.Open(histPath); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(ConfigDir(), 0o700); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}()

	_, _ = fmt.Fprintln(r.out, `Type "help" for commands.`)
	for {
		input, err := line.Prompt("explorer> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := r.exec(cmd.Context(), input)
		if err != nil {
			printReplError(r.out, err)
		}
		if quit {
			return nil
		}
	}
}

func printReplError(w io.Writer, err error) {
	msg := err.Error()
	if domain.IsUpstreamError(err) {
		msg = domain.UserMessage(err)
	}
	_, _ = fmt.Fprintf(w, "ERROR: %s\n", msg)
}
