package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/output"
	"github.com/ccollicutt/chatlens/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigPath  string
	Output      string
	Verbose     bool
	Quiet       bool
	Color       bool
	Concurrency int

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <export>...",
		Short: "Analyze chat exports",
		Long: `Analyze one or more exported chat transcripts.

Reports message and word totals, participants, the date range, daily and
hourly activity, per-user statistics, top words and top emojis.

Arguments may be glob patterns; matches are de-duplicated and analyzed in
sorted order.

Exit codes:
  0 - Every export produced a report
  1 - At least one export yielded no messages
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultFormat, "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show full tables and parse counters")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, one line per export")
	cmd.Flags().BoolVar(&opts.Color, "color", false, "Color participant names")
	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "j", config.DefaultConcurrency, "Exports analyzed at once")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnSuccess),
		"When to fire webhook (on_success|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyAnalyzeFlags(cmd, cfg, opts)

	logger, err := commandLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	hooks, err := collectWebhooks(cfg, opts)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(cfg.Output.Format, output.FormatOptions{
		Verbose: cfg.Output.Verbose,
		Quiet:   opts.Quiet,
		Color:   cfg.Output.Color,
	})
	if err != nil {
		return err
	}

	files, err := expandExports(args)
	if err != nil {
		return fmt.Errorf("expanding exports: %w", err)
	}

	reports, err := analyzeFiles(ctx, files, cfg.Analysis.Concurrency, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, report := range reports {
		if i > 0 && formatter.Name() == "text" && !opts.Quiet {
			fmt.Fprintln(out)
		}
		if err := formatter.Format(ctx, report, out); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail analysis)
	sendWebhooks(ctx, cmd.ErrOrStderr(), logger, hooks, reports)

	for _, report := range reports {
		if !report.Succeeded() {
			ExitCode = 1
		}
	}

	return nil
}

// applyAnalyzeFlags lets explicitly set flags override the configuration.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config, opts *AnalyzeOptions) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format = opts.Output
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = opts.Verbose
	}
	if flags.Changed("color") {
		cfg.Output.Color = opts.Color
	}
	if flags.Changed("concurrency") && opts.Concurrency > 0 {
		cfg.Analysis.Concurrency = opts.Concurrency
	}
}

// analyzeFiles analyzes files a few at a time and returns their reports in
// the order of files. An export without messages still yields a report; any
// other failure aborts the run.
func analyzeFiles(ctx context.Context, files []string, concurrency int, logger *zap.Logger) ([]*output.Report, error) {
	a := analyzer.New(analyzer.WithLogger(logger))
	reports := make([]*output.Report, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			report, err := analyzeFile(a, path)
			if err != nil {
				return err
			}
			reports[i] = report
			logger.Info("export analyzed",
				zap.String("file", path),
				zap.String("run_id", report.RunID),
				zap.Bool("succeeded", report.Succeeded()),
				zap.Duration("duration", report.Duration))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func analyzeFile(a *analyzer.Analyzer, path string) (*output.Report, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("export not found: %s", path)
		}
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer file.Close()

	started := time.Now()
	res, err := a.Analyze(file)
	if err != nil && !errors.Is(err, analyzer.ErrNoMessagesParsed) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return output.NewReport(path, started, res, err), nil
}

// sendWebhooks delivers every report to the webhooks whose trigger fires and
// prints one status line per delivery.
func sendWebhooks(ctx context.Context, w io.Writer, logger *zap.Logger, hooks []config.WebhookConfig, reports []*output.Report) {
	if len(hooks) == 0 {
		return
	}

	client := webhook.NewClient(webhook.WithLogger(logger))
	for _, report := range reports {
		for _, d := range client.Dispatch(ctx, report, hooks) {
			if d.Skipped() {
				continue
			}
			name := d.Webhook.DisplayName()
			if d.Response.Success() {
				fmt.Fprintf(w, "Webhook %s: sent %s (%d, %s)\n",
					name, report.Source, d.Response.StatusCode, d.Response.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(w, "Webhook %s: failed for %s (%v)\n", name, report.Source, d.Response.Error)
			}
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) ([]config.WebhookConfig, error) {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL == "" {
		return webhooks, nil
	}

	if err := config.ValidateWebhookURL(opts.WebhookURL); err != nil {
		return nil, fmt.Errorf("--webhook-url: %w", err)
	}
	trigger, err := config.ParseWebhookTrigger(opts.WebhookTrigger)
	if err != nil {
		return nil, fmt.Errorf("--webhook-trigger: %w", err)
	}

	return append(webhooks, config.WebhookConfig{
		Name:    "cli",
		URL:     opts.WebhookURL,
		Token:   opts.WebhookToken,
		Trigger: trigger,
		Timeout: config.DefaultWebhookTimeout,
	}), nil
}
