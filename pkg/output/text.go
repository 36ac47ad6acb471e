package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

const (
	barWidth = 30

	// Rows shown outside verbose mode.
	briefUsers  = 5
	briefWords  = 10
	briefEmojis = 5
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	if !report.Succeeded() {
		return f.formatFailure(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	a := report.Analysis
	if a == nil {
		_, err := fmt.Fprintf(w, "chatlens: %s: %s\n", report.Source, report.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "chatlens: %s: %s messages, %d participants, %s to %s\n",
		report.Source,
		humanize.Comma(int64(a.TotalMessages)),
		len(a.Participants),
		a.DateRange.Start, a.DateRange.End)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	a := report.Analysis
	paint := f.painter(w)

	fmt.Fprintf(w, "=== Chat Analysis: %s ===\n", report.Source)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Messages:      %s\n", humanize.Comma(int64(a.TotalMessages)))
	fmt.Fprintf(w, "Words:         %s\n", humanize.Comma(int64(a.TotalWords)))
	fmt.Fprintf(w, "Media:         %s\n", humanize.Comma(int64(a.MediaCount)))
	fmt.Fprintf(w, "Participants:  %d\n", len(a.Participants))
	fmt.Fprintf(w, "Date range:    %s to %s (%d active days)\n",
		a.DateRange.Start, a.DateRange.End, len(a.DailyActivity))
	fmt.Fprintln(w)

	f.formatUsers(a, w, paint)
	f.formatHourly(a, w)
	f.formatWords(a, w)
	f.formatEmojis(a, w)

	if f.opts.Verbose {
		f.formatMetadata(report, w)
	}
	return nil
}

func (f *TextFormatter) formatUsers(a *analyzer.Report, w io.Writer, paint func(string, string) string) {
	users := a.UserStats
	if !f.opts.Verbose && len(users) > briefUsers {
		users = users[:briefUsers]
	}

	width := 0
	for _, u := range users {
		width = max(width, len(u.Name))
	}

	fmt.Fprintln(w, "Top participants")
	for _, u := range users {
		name := paint(fmt.Sprintf("%-*s", width, u.Name), u.Color)
		fmt.Fprintf(w, "  %s  %s messages, %s words, avg %.1f words/message\n",
			name, humanize.Comma(int64(u.Messages)), humanize.Comma(int64(u.Words)), u.AvgLength)
	}
	if hidden := len(a.UserStats) - len(users); hidden > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", hidden)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatHourly(a *analyzer.Report, w io.Writer) {
	peak := 0
	for _, h := range a.HourlyActivity {
		peak = max(peak, h.Messages)
	}

	fmt.Fprintln(w, "Activity by hour")
	for _, h := range a.HourlyActivity {
		if h.Messages == 0 && !f.opts.Verbose {
			continue
		}
		fmt.Fprintf(w, "  %02d | %s %s\n", h.Hour, bar(h.Messages, peak), humanize.Comma(int64(h.Messages)))
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatWords(a *analyzer.Report, w io.Writer) {
	if len(a.WordFrequency) == 0 {
		return
	}
	words := a.WordFrequency
	if !f.opts.Verbose && len(words) > briefWords {
		words = words[:briefWords]
	}

	parts := make([]string, len(words))
	for i, wc := range words {
		parts[i] = fmt.Sprintf("%s (%s)", wc.Text, humanize.Comma(int64(wc.Value)))
	}
	fmt.Fprintln(w, "Top words")
	fmt.Fprintf(w, "  %s\n", strings.Join(parts, ", "))
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEmojis(a *analyzer.Report, w io.Writer) {
	if len(a.EmojiStats) == 0 {
		return
	}
	emojis := a.EmojiStats
	if !f.opts.Verbose && len(emojis) > briefEmojis {
		emojis = emojis[:briefEmojis]
	}

	fmt.Fprintln(w, "Top emojis")
	for _, e := range emojis {
		fmt.Fprintf(w, "  %s  x%s  %s (%s)\n", e.Emoji, humanize.Comma(int64(e.Count)), e.Name, e.Category)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatMetadata(report *Report, w io.Writer) {
	s := report.Stats
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(w, "Duration: %s\n", report.Duration.Round(1e6))
	fmt.Fprintf(w, "Lines: %s total, %s non-empty, %s headers, %s continuations, %s dropped\n",
		humanize.Comma(int64(s.TotalLines)),
		humanize.Comma(int64(s.NonEmptyLines)),
		humanize.Comma(int64(s.MatchedLines)),
		humanize.Comma(int64(s.ContinuationLines)),
		humanize.Comma(int64(s.DroppedLines)))
	fmt.Fprintf(w, "Messages: %s parsed, %s system, %s usable\n",
		humanize.Comma(int64(s.Messages)),
		humanize.Comma(int64(s.SystemMessages)),
		humanize.Comma(int64(s.UsableMessages)))
}

func (f *TextFormatter) formatFailure(report *Report, w io.Writer) error {
	s := report.Stats

	fmt.Fprintf(w, "=== Chat Analysis: %s ===\n", report.Source)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Error: %s\n", report.Error)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Troubleshooting")
	fmt.Fprintf(w, "  Non-empty lines:  %s\n", humanize.Comma(int64(s.NonEmptyLines)))
	fmt.Fprintf(w, "  Header lines:     %s\n", humanize.Comma(int64(s.MatchedLines)))
	fmt.Fprintf(w, "  Usable messages:  %s\n", humanize.Comma(int64(s.UsableMessages)))
	for _, hint := range Hints(s.NonEmptyLines, s.MatchedLines, s.UsableMessages) {
		fmt.Fprintf(w, "  - %s\n", hint)
	}
	return nil
}

// Hints explains a failed analysis from its parse counters.
func Hints(nonEmpty, matched, usable int) []string {
	switch {
	case nonEmpty == 0:
		return []string{"The file is empty. Export the chat again and upload the .txt file."}
	case matched == 0:
		return []string{
			"No line starts with a recognized date, time and sender.",
			`Use the "Export chat" text file, not a screenshot or a backup database.`,
			"Run 'chatlens detect' on the file to see which header formats match.",
		}
	case usable == 0:
		return []string{"Every message was a system notice or empty."}
	default:
		return nil
	}
}

// painter returns a function that colors text with a hex color. Without the
// Color option it returns text unchanged.
func (f *TextFormatter) painter(w io.Writer) func(text, color string) string {
	if !f.opts.Color {
		return func(text, _ string) string { return text }
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	return func(text, color string) string {
		return r.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
	}
}

func bar(n, peak int) string {
	if peak == 0 || n == 0 {
		return ""
	}
	width := n * barWidth / peak
	if width == 0 {
		width = 1
	}
	return strings.Repeat("█", width)
}
