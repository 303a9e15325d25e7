// Command taglint checks tagged geodata against the road, place and tagging rule sets
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"taglint/internal/core/version"
	perr "taglint/internal/platform/errors"
	"taglint/internal/platform/jsonx"
	"taglint/internal/platform/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps the outcome to an exit code
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "taglint: %v\n", err)
		return perr.ExitCode(err)
	}
	return perr.ExitOK
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taglint",
		Short:         "Rule based linter for tagged geodata",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `taglint reads GeoJSON features (a FeatureCollection or one feature per line,
optionally gzip compressed), runs the road, place and tagging hygiene checks over
them and writes every defect into a category named destination.

Configuration comes from TAGLINT_* environment variables; flags override them.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts := logger.FromEnv()
			pf := cmd.Flags()
			if pf.Changed("log-level") {
				lvl, _ := pf.GetString("log-level")
				opts.Level = strings.ToLower(lvl)
			}
			if pf.Changed("log-format") {
				format, _ := pf.GetString("log-format")
				opts.Format = strings.ToLower(format)
			}
			logger.Init(opts)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return perr.Wrap(err, perr.ErrorCodeValidation, "usage")
	})

	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")

	cmd.AddCommand(checkCmd(), rulesCmd(), versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Info()
			if !asJSON {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return err
			}
			return jsonx.NewEncoder(cmd.OutOrStdout()).Encode(info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return perr.Validationf("unexpected arguments: %s", strings.Join(args, " "))
	}
	return nil
}
