package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatlens configuration file without running analysis.

Checks:
  - YAML syntax
  - Output format and log level
  - Server address, upload limit and timeouts
  - Analysis concurrency
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Output:       %s (color: %t, verbose: %t)\n", cfg.Output.Format, cfg.Output.Color, cfg.Output.Verbose)
	fmt.Fprintf(w, "  Log level:    %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "  Server:       %s (uploads up to %s, read timeout %s)\n",
		cfg.Server.Addr, humanize.IBytes(uint64(cfg.Server.MaxUploadBytes)), cfg.Server.ReadTimeout)
	fmt.Fprintf(w, "  Concurrency:  %d\n", cfg.Analysis.Concurrency)
	fmt.Fprintf(w, "  Webhooks:     %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		fmt.Fprintf(w, "    %d. %s [%s, timeout %s]\n", i+1, wh.DisplayName(), wh.Trigger, wh.Timeout)
	}

	return nil
}
