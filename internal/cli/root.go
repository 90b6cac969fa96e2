package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nonibytes/wizardql/internal/cli/commands"
	"github.com/nonibytes/wizardql/internal/cliopt"
	"github.com/nonibytes/wizardql/internal/cliutil"
)

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	g := cliopt.DefaultGlobalOptions()
	opts := &g

	cmd := &cobra.Command{
		Use:           "wizardql",
		Short:         "WizardQL filter expression toolkit",
		Long:          rootLong,
		Example:       rootExamples,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}
	cliopt.BindGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(commands.NewTokenizeCommand(opts))
	cmd.AddCommand(commands.NewParseCommand(opts))
	cmd.AddCommand(commands.NewFmtCommand(opts))
	cmd.AddCommand(commands.NewSummarizeCommand(opts))
	cmd.AddCommand(commands.NewSQLCommand(opts))
	cmd.AddCommand(commands.NewFilterCommand(opts))
	cmd.AddCommand(commands.NewSelectCommand(opts))

	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Execute runs the CLI and returns an exit code.
func Execute(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(argv)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return cliutil.ExitSuccess
	}
	var exitErr *cliutil.ExitError
	if !errors.As(err, &exitErr) {
		// flag and argument errors are not reported by the commands
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
	}
	return cliutil.GetExitCode(err)
}
