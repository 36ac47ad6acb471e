// Package cli provides the command-line interface for chatlens.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/ccollicutt/chatlens/internal/cli/commands"
	"github.com/ccollicutt/chatlens/internal/cli/plugins"
	"github.com/ccollicutt/chatlens/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	candidate := pluginCandidate(rootCmd, args)
	if candidate != "" {
		if pluginPath, err := plugins.FindPlugin(candidate); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:], stdin, stdout, stderr)
		}
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if candidate != "" {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(candidate))
			return 2
		}
		// SilenceErrors keeps cobra from printing this itself
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument when it names a command that is
// not built in.
func pluginCandidate(rootCmd *cobra.Command, args []string) string {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		return ""
	}
	if isBuiltinCommand(rootCmd, args[0]) {
		return ""
	}
	return args[0]
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "chatlens",
		Short: "Analyze exported chat transcripts",
		Long: `chatlens parses the text files produced by "Export chat" and reports what
happened in the conversation.

It reports:
  - Message and word totals, participants and the date range
  - Activity per day and per hour
  - Per-participant message, word and emoji counts
  - The most used words and emojis

Exports are analyzed locally with 'chatlens analyze' or uploaded to
'chatlens serve'.

PLUGINS:
  Unknown commands run a standalone binary named chatlens-<command>.

  Plugin locations (searched in order):
    1. Same directory as the chatlens binary
    2. ~/.chatlens/plugins/
    3. Anywhere in PATH

  Run 'chatlens plugins' to list the installed plugins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := zapcore.ParseLevel(logLevel); err != nil {
				return fmt.Errorf("invalid --%s %q: %w", commands.LogLevelFlag, logLevel, err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, commands.LogLevelFlag, config.DefaultLogLevel,
		"Diagnostic log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())
	rootCmd.AddCommand(newPluginsCommand())

	return rootCmd
}

func newPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List installed plugins",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			found := plugins.Discover()
			if len(found) == 0 {
				fmt.Fprintln(w, "No plugins installed.")
				return
			}
			for _, p := range found {
				fmt.Fprintf(w, "%-12s %s\n", p.Command, p.Path)
			}
		},
	}
}
