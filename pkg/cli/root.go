// Package cli implements the explorer command-line client. Commands run
// explorer sessions locally against the upstream query endpoint.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"innings-explorer/internal/domain"
	"innings-explorer/internal/upstream"
)

const defaultHost = "http://localhost:8000"

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == outputJSON {
			errObj := map[string]any{"error": err.Error()}
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.HTTPStatus
				if apiErr.Detail != "" {
					errObj["detail"] = apiErr.Detail
				}
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host      string
		queryPath string
		timeout   time.Duration
		output    string
		profile   string
		verbose   bool
	)
	rt := &runtime{logger: slog.Default()}

	rootCmd := &cobra.Command{
		Use:           "explorer",
		Short:         "Cricket innings explorer CLI",
		Long:          "Query, tabulate, chart and export innings statistics from the query endpoint.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = newUserConfig()
			}
			p, err := cfg.ActiveProfile(profile)
			if err != nil {
				return err
			}

			// flag > env > profile > default
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("EXPLORER_HOST"); v != "" {
					host = v
				} else if p.Host != "" {
					host = p.Host
				}
			}
			if !cmd.Flags().Changed("query-path") && p.QueryPath != "" {
				queryPath = p.QueryPath
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("EXPLORER_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			if host, err = normalizeHost(host); err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			rt.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			c := upstream.NewClient(host)
			c.QueryPath = queryPath
			c.HTTPClient.Timeout = timeout
			c.Logger = rt.logger
			rt.client = c
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&host, "host", defaultHost, "Query endpoint base URL")
	pf.StringVar(&queryPath, "query-path", upstream.DefaultQueryPath, "Query endpoint path")
	pf.DurationVar(&timeout, "timeout", upstream.DefaultTimeout, "Request timeout")
	pf.StringVarP(&output, "output", "o", outputTable, "Output format (table, json, csv)")
	pf.StringVarP(&profile, "profile", "p", "", "Config profile to use")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	rootCmd.AddCommand(newQueryCmd(rt))
	rootCmd.AddCommand(newExportCmd(rt))
	rootCmd.AddCommand(newChartCmd(rt))
	rootCmd.AddCommand(newExploreCmd(rt))
	rootCmd.AddCommand(newURLCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
