package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
)

// briefConflicts is how many pattern conflicts are listed without --all.
const briefConflicts = 3

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <export>",
		Short: "Detect the message header format of a chat export",
		Long: `Sample the head of a chat export and report which message header formats
it uses.

For each header format the report shows how many sampled lines it accepts,
how many it wins under first-match priority, and a sample line. It also
counts slash dates that prove day-first or month-first order, and lists
lines that two formats would read with a different sender or body.

Detection never changes how an export is analyzed.

Example:
  chatlens detect "WhatsApp Chat with Family.txt"
  chatlens detect --sample 500 --all chat.txt
  chatlens detect --write-config chatlens.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of non-blank lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every matching format, conflict and sampled line")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	export := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	// Check file exists
	if _, err := os.Stat(export); os.IsNotExist(err) {
		return fmt.Errorf("export not found: %s", export)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, export)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(out, result, export, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(out, result, export, opts)
	default:
		outputDetectText(out, result, export, opts)
		return nil
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, export string, opts *DetectOptions) {
	fmt.Fprintln(w, "=== Header Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", export)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Header lines: %d (%.1f%%)\n", result.ParsedLines, result.Coverage()*100)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No header format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: Use the text file produced by \"Export chat\".")
		fmt.Fprintln(w, "Run 'chatlens diagnose' on the file for more checks.")
		return
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched, %d won)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines, best.WinCount)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	if e := result.DateOrder; e.Total() > 0 {
		fmt.Fprintf(w, "Date order: %d day-first, %d month-first, %d ambiguous\n",
			e.DayFirst, e.MonthFirst, e.Ambiguous)
	}
	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
	}
	if result.DateOrder.Total() > 0 || result.AmbiguityNote != "" {
		fmt.Fprintln(w)
	}

	if n := len(result.Conflicts); n > 0 {
		fmt.Fprintf(w, "--- Pattern conflicts (%d) ---\n", n)
		conflicts := result.Conflicts
		if !opts.ShowAll && len(conflicts) > briefConflicts {
			conflicts = conflicts[:briefConflicts]
		}
		for _, c := range conflicts {
			fmt.Fprintf(w, "line %d: %s\n", c.LineNum, truncate(c.Line, 80))
			fmt.Fprintf(w, "  used:    %s -> sender %q\n", c.Winner.Name, c.Winner.Sender)
			fmt.Fprintf(w, "  ignored: %s -> sender %q\n", c.Alternative.Name, c.Alternative.Sender)
		}
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative formats detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence, %d won)\n", i+2, m.Format.Name, m.Confidence*100, m.WinCount)
			fmt.Fprintf(w, "   pattern: '%s'\n", m.Format.PatternStr)
		}
		fmt.Fprintln(w)
	}

	if opts.ShowAll {
		fmt.Fprintln(w, "--- Sampled lines ---")
		for _, l := range result.Lines {
			winner := "continuation"
			if l.Winner >= 0 {
				winner = fmt.Sprintf("pattern %d", l.Winner)
			}
			fmt.Fprintf(w, "%5d  %-13s %s\n", l.LineNum, winner, truncate(l.Content, 60))
		}
		fmt.Fprintln(w)
	}
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File string `json:"file"`
	*detector.DetectionResult
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, export string, opts *DetectOptions) error {
	trimmed := *result
	if !opts.ShowAll {
		if len(trimmed.Matches) > 1 {
			trimmed.Matches = trimmed.Matches[:1] // Only show best match
		}
		trimmed.Lines = nil
	}
	if trimmed.Matches == nil {
		trimmed.Matches = []detector.FormatMatch{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(JSONOutput{File: export, DetectionResult: &trimmed})
}

// writeStarterConfig writes a configuration file with the defaults and the
// detection summary as comments.
func writeStarterConfig(w io.Writer, result *detector.DetectionResult, export, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no header format detected")
	}

	content := generateStarterConfig(export, result)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(export string, result *detector.DetectionResult) string {
	absExport := export
	if abs, err := filepath.Abs(export); err == nil {
		absExport = abs
	}

	best := result.BestMatch()
	note := result.AmbiguityNote
	if note == "" {
		note = "none"
	}

	return fmt.Sprintf(`# chatlens configuration
# Generated by: chatlens detect
# Export: %s
# Detected format: %s (%.0f%% confidence)
# Date order note: %s

output:
  format: %s
  color: false
  verbose: false

logging:
  level: %s

analysis:
  concurrency: %d

server:
  addr: "%s"
  max_upload_bytes: %d
  read_timeout: %s

# webhooks:
#   - name: team-dashboard
#     url: https://example.com/hooks/chatlens
#     token: ${CHATLENS_WEBHOOK_TOKEN}
#     trigger: on_success
#     timeout: 10s
`, absExport,
		best.Format.Name, best.Confidence*100,
		note,
		config.DefaultFormat,
		config.DefaultLogLevel,
		config.DefaultConcurrency,
		config.DefaultServerAddr,
		config.DefaultMaxUploadBytes,
		config.DefaultReadTimeout)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
