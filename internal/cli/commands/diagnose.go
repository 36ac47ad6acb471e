package commands

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/config"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/output"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

const (
	// systemShareWarn is the system-message share above which diagnose warns.
	systemShareWarn = 0.5

	// coverageWarn is the header share of sampled lines below which diagnose
	// warns. Long multi-line messages lower it legitimately.
	coverageWarn = 0.2

	// encodingSampleBytes is how much of the file the encoding check reads.
	encodingSampleBytes = 64 * 1024
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose    bool
	ConfigPath string
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <export>",
		Short: "Diagnose why an export does or does not parse",
		Long: `Diagnose common problems with a chat export.

This command runs a series of checks against the file:
- File existence, size and readability
- Text encoding
- Message header format matching
- Day/month order ambiguity
- Usable message count
- Share of system notices

With --config, the configuration file and its webhooks are checked too.

Example:
  chatlens diagnose chat.txt
  chatlens diagnose -v --config chatlens.yaml chat.txt  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Also check this configuration file")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, path string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	// 1. Check the export exists and has content
	result := checkExportExists(path)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Check encoding
	results = append(results, checkEncoding(path))

	// 3. Check header formats against the head of the file
	detection, result := checkHeaderFormat(ctx, path, opts)
	results = append(results, result)
	if detection != nil && detection.HasMatch() {
		results = append(results, checkDateOrder(detection))
		if r, ok := checkConflicts(detection, opts); ok {
			results = append(results, r)
		}
	}

	// 4. Run the full pipeline
	results = append(results, checkMessages(path, opts)...)

	// 5. Optional configuration and webhooks
	if opts.ConfigPath != "" {
		cfg, result := checkConfigParseable(ctx, opts.ConfigPath)
		results = append(results, result)
		if cfg != nil {
			results = append(results, checkWebhooks(ctx, cfg, opts)...)
		}
	}

	printDiagnostics(w, results, opts)
	return nil
}

func checkExportExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Export File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Export not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access export: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		result.Suggests = []string{"Unzip the export and point at the .txt file inside"}
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Export is empty"
		result.Suggests = output.Hints(0, 0, 0)
		return result
	}

	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read export: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	_ = f.Close()

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%s)", path, humanize.IBytes(uint64(info.Size())))
	return result
}

func checkEncoding(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Encoding",
	}

	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read export: %v", err)
		return result
	}
	defer f.Close()

	buf := make([]byte, encodingSampleBytes)
	n, err := io.ReadFull(bufio.NewReader(f), buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read export: %v", err)
		return result
	}
	sample := buf[:n]

	// A multi-byte rune may be cut at the end of the sample.
	if n == encodingSampleBytes {
		sample = trimPartialRune(sample)
	}

	if !utf8.Valid(sample) {
		result.Status = "warning"
		result.Message = "File is not valid UTF-8"
		result.Suggests = []string{
			"Exports are UTF-8 text; re-export the chat instead of converting it",
			"Non-UTF-8 bytes may break sender names and emoji counts",
		}
		return result
	}

	result.Status = "ok"
	result.Message = "UTF-8 text"
	if bytes.HasPrefix(sample, []byte("\ufeff")) {
		result.Details = append(result.Details, "Starts with a byte order mark (ignored)")
	}
	if bytes.Contains(sample, []byte("\r\n")) {
		result.Details = append(result.Details, "Uses CRLF line endings")
	}
	return result
}

// trimPartialRune drops an incomplete UTF-8 sequence from the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}

func checkHeaderFormat(ctx context.Context, path string, opts *DiagnoseOptions) (*detector.DetectionResult, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Header Format",
	}

	d := detector.New()
	detection, err := d.DetectFromFile(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot sample export: %v", err)
		return nil, result
	}

	if !detection.HasMatch() {
		result.Status = "error"
		result.Message = fmt.Sprintf("No message header found in the first %d non-blank lines", detection.SampledLines)
		result.Suggests = output.Hints(detection.SampledLines, 0, 0)
		result.Details = sampleLines(detection, 3)
		return detection, result
	}

	best := detection.BestMatch()
	coverage := detection.Coverage()
	result.Message = fmt.Sprintf("%s (%d/%d sampled lines are headers)",
		best.Format.Name, detection.ParsedLines, detection.SampledLines)
	result.Details = []string{
		fmt.Sprintf("Sample: %s", truncate(best.SampleLine, 80)),
		fmt.Sprintf("Parsed as: %s", best.ParsedTime.Format("2006-01-02 15:04:05")),
	}

	if coverage < coverageWarn {
		result.Status = "warning"
		result.Suggests = []string{
			"Few lines start a message; check that most lines begin with a date and time",
		}
		return detection, result
	}

	result.Status = "ok"
	if opts.Verbose {
		for _, m := range detection.Matches[1:] {
			result.Details = append(result.Details,
				fmt.Sprintf("Also matches: %s (%.0f%%, %d won)", m.Format.Name, m.Confidence*100, m.WinCount))
		}
	}
	return detection, result
}

func sampleLines(detection *detector.DetectionResult, n int) []string {
	var lines []string
	for _, l := range detection.Lines {
		if len(lines) == n {
			break
		}
		lines = append(lines, fmt.Sprintf("Line %d: %s", l.LineNum, truncate(l.Content, 80)))
	}
	return lines
}

func checkDateOrder(detection *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Date Order",
	}

	e := detection.DateOrder
	if e.Total() == 0 {
		result.Status = "ok"
		result.Message = "No slash dates; day and month order is fixed by the format"
		return result
	}

	result.Details = []string{
		fmt.Sprintf("Day-first dates: %d", e.DayFirst),
		fmt.Sprintf("Month-first dates: %d", e.MonthFirst),
		fmt.Sprintf("Ambiguous dates: %d", e.Ambiguous),
	}

	if detection.AmbiguityNote != "" {
		result.Status = "warning"
		result.Message = detection.AmbiguityNote
		result.Suggests = []string{
			"Each slash date is resolved on its own; ambiguous ones are read as DD/MM",
			"Check the date range and daily activity in the report",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d slash date(s), order is unambiguous", e.Total())
	return result
}

func checkConflicts(detection *detector.DetectionResult, opts *DiagnoseOptions) (DiagnosticResult, bool) {
	if len(detection.Conflicts) == 0 {
		return DiagnosticResult{}, false
	}

	c := detection.Conflicts[0]
	result := DiagnosticResult{
		Check:  "Pattern Overlap",
		Status: "ok",
		Message: fmt.Sprintf("%d line(s) match more than one format; %q is used",
			len(detection.Conflicts), c.Winner.Name),
		Details: []string{
			fmt.Sprintf("Line %d: sender %q, not %q", c.LineNum, c.Winner.Sender, c.Alternative.Sender),
		},
	}
	if opts.Verbose {
		for _, c := range detection.Conflicts[1:] {
			result.Details = append(result.Details,
				fmt.Sprintf("Line %d: sender %q, not %q", c.LineNum, c.Winner.Sender, c.Alternative.Sender))
		}
	}
	return result, true
}

func checkMessages(path string, opts *DiagnoseOptions) []DiagnosticResult {
	messages := DiagnosticResult{
		Check: "Messages",
	}

	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		messages.Status = "error"
		messages.Message = fmt.Sprintf("Cannot read export: %v", err)
		return []DiagnosticResult{messages}
	}
	defer f.Close()

	res, err := analyzer.New().Analyze(f)
	var stats parser.Stats
	var pe *analyzer.ParseError
	switch {
	case err == nil:
		stats = res.Stats
	case errors.As(err, &pe):
		stats = pe.Stats
	default:
		messages.Status = "error"
		messages.Message = fmt.Sprintf("Analysis failed: %v", err)
		return []DiagnosticResult{messages}
	}

	messages.Details = []string{
		fmt.Sprintf("Lines: %s total, %s non-empty", humanize.Comma(int64(stats.TotalLines)), humanize.Comma(int64(stats.NonEmptyLines))),
		fmt.Sprintf("Headers: %s, continuations: %s", humanize.Comma(int64(stats.MatchedLines)), humanize.Comma(int64(stats.ContinuationLines))),
		fmt.Sprintf("Dropped before first header: %s", humanize.Comma(int64(stats.DroppedLines))),
	}
	if opts.Verbose {
		patterns := parser.HeaderPatterns()
		for i, hits := range stats.PatternHits {
			if hits > 0 {
				messages.Details = append(messages.Details,
					fmt.Sprintf("Pattern %q: %s header(s)", patterns[i].Name, humanize.Comma(int64(hits))))
			}
		}
	}

	if err != nil {
		messages.Status = "error"
		messages.Message = err.Error()
		messages.Suggests = output.Hints(stats.NonEmptyLines, stats.MatchedLines, stats.UsableMessages)
		return []DiagnosticResult{messages}
	}

	messages.Status = "ok"
	messages.Message = fmt.Sprintf("%s usable message(s) from %d participant(s)",
		humanize.Comma(int64(stats.UsableMessages)), len(res.Report.Participants))
	if stats.DroppedLines > 0 {
		messages.Status = "warning"
		messages.Suggests = []string{"Lines before the first header are ignored; the export may be truncated at the top"}
	}

	return []DiagnosticResult{messages, checkSystemShare(stats)}
}

func checkSystemShare(stats parser.Stats) DiagnosticResult {
	result := DiagnosticResult{
		Check: "System Messages",
	}

	if stats.Messages == 0 {
		result.Status = "ok"
		result.Message = "No messages"
		return result
	}

	share := float64(stats.SystemMessages) / float64(stats.Messages)
	result.Message = fmt.Sprintf("%s of %s message(s) are system notices (%.0f%%)",
		humanize.Comma(int64(stats.SystemMessages)), humanize.Comma(int64(stats.Messages)), share*100)
	if share > systemShareWarn {
		result.Status = "warning"
		result.Suggests = []string{"Most messages are joins, deletions or call notices; statistics cover the rest only"}
		return result
	}
	result.Status = "ok"
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config File",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		result.Suggests = append(result.Suggests,
			"Use 'chatlens detect <export> --write-config chatlens.yaml' to generate a starter config")
		return nil, result
	}

	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Output: %s", cfg.Output.Format),
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatlens Export Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nExport is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nExport looks good!")
	}
}

func checkWebhooks(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		// Webhooks are optional, just note they're not configured
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", wh.DisplayName()),
		}

		if wh.Trigger != config.WebhookTriggerNever && wh.Token == "" && strings.HasPrefix(wh.URL, "http://") {
			result.Status = "warning"
			result.Message = "Plain http endpoint without a token"
			result.Suggests = []string{"Reports include message statistics; prefer https and a bearer token"}
		} else {
			result.Status = "ok"
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
		}
		if opts.Verbose {
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)
	}

	// Optionally test webhook connectivity
	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			result := checkWebhookConnectivity(ctx, wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", wh.DisplayName())
			results = append(results, result)
		}
	}

	return results
}

func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	// Just do a HEAD request to check if the endpoint is reachable
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	// Any response (even 4xx/5xx) means the server is reachable
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST method (will work during actual webhook send)",
			"Check authentication if using a token",
		}
	}

	return result
}
