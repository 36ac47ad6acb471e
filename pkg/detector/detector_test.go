package detector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"
)

func TestDetector_DetectFromLines_Android(t *testing.T) {
	lines := []string{
		"1/15/23, 9:05 AM - Alice: hello",
		"1/15/23, 9:06 AM - Bob: hi",
		"1/15/23, 9:07 AM - Alice: how are you",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if !result.HasMatch() {
		t.Fatal("Expected to detect a format")
	}

	best := result.BestMatch()
	if best.Format.Name != "slash date, 12-hour clock, dash separator" {
		t.Errorf("Expected 12-hour dash format, got %s", best.Format.Name)
	}

	if best.Confidence != 1.0 {
		t.Errorf("Expected 100%% confidence, got %.1f%%", best.Confidence*100)
	}

	if best.WinCount != 3 {
		t.Errorf("Expected 3 wins, got %d", best.WinCount)
	}

	if result.ParsedLines != 3 {
		t.Errorf("Expected 3 parsed lines, got %d", result.ParsedLines)
	}
}

func TestDetector_DetectFromLines_IOS(t *testing.T) {
	lines := []string{
		"[15.01.23, 21:04:33] Alice: hello",
		"[15.01.23, 21:05:01] Bob: hi",
	}

	d := New()
	result := d.DetectFromLines(lines)

	best := result.BestMatch()
	if best == nil {
		t.Fatal("Expected to detect a format")
	}
	if best.Format.Name != "bracketed dot date" {
		t.Errorf("Expected bracketed dot date, got %s", best.Format.Name)
	}
	if best.Format.Ambiguous {
		t.Error("Dot dates should not be marked ambiguous")
	}

	want := time.Date(2023, 1, 15, 21, 4, 33, 0, time.UTC)
	if !best.ParsedTime.Equal(want) {
		t.Errorf("Expected parsed time %v, got %v", want, best.ParsedTime)
	}
	if result.AmbiguityNote != "" {
		t.Errorf("Expected no ambiguity note, got %q", result.AmbiguityNote)
	}
}

func TestDetector_DetectFromLines_ContinuationsLowerCoverage(t *testing.T) {
	lines := []string{
		"15/01/2023, 09:05 - Alice: first",
		"second line of the same message",
		"",
		"15/01/2023, 09:06 - Bob: reply",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if result.SampledLines != 3 {
		t.Errorf("Expected blank lines to be skipped, sampled %d", result.SampledLines)
	}
	if result.ParsedLines != 2 {
		t.Errorf("Expected 2 parsed lines, got %d", result.ParsedLines)
	}
	if got := result.Coverage(); got < 0.66 || got > 0.67 {
		t.Errorf("Expected coverage of two thirds, got %.3f", got)
	}

	if len(result.Lines) != 3 {
		t.Fatalf("Expected 3 line results, got %d", len(result.Lines))
	}
	if result.Lines[1].Winner != -1 {
		t.Errorf("Continuation line should have no winner, got %d", result.Lines[1].Winner)
	}
	if result.Lines[2].LineNum != 4 {
		t.Errorf("Expected original line number 4, got %d", result.Lines[2].LineNum)
	}
}

func TestDetector_DetectFromLines_DayFirstEvidence(t *testing.T) {
	d := New()
	result := d.DetectFromLines([]string{
		"13/05/2023, 10:00 - Alice: hi",
		"05/06/2023, 10:00 - Alice: hi",
	})

	if result.DateOrder.DayFirst != 1 {
		t.Errorf("Expected 1 day-first date, got %d", result.DateOrder.DayFirst)
	}
	if result.DateOrder.Ambiguous != 1 {
		t.Errorf("Expected 1 ambiguous date, got %d", result.DateOrder.Ambiguous)
	}
	if result.AmbiguityNote != "" {
		t.Errorf("Day-first evidence covers the default, got note %q", result.AmbiguityNote)
	}
}

func TestDetector_DetectFromLines_MonthFirstEvidence(t *testing.T) {
	d := New()
	result := d.DetectFromLines([]string{
		"05/13/2023, 10:00 - Alice: hi",
		"05/06/2023, 10:00 - Alice: hi",
	})

	if result.DateOrder.MonthFirst != 1 {
		t.Errorf("Expected 1 month-first date, got %d", result.DateOrder.MonthFirst)
	}
	if !strings.Contains(result.AmbiguityNote, "month-first") {
		t.Errorf("Expected a month-first warning, got %q", result.AmbiguityNote)
	}
}

func TestDetector_DetectFromLines_AmbiguousFormat(t *testing.T) {
	lines := []string{
		"01/05/2024, 10:30 - Alice: hi",
		"01/06/2024, 10:30 - Bob: hello",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if !result.HasMatch() {
		t.Fatal("Expected to detect a format")
	}

	best := result.BestMatch()
	if !best.Format.Ambiguous {
		t.Error("Expected format to be marked as ambiguous")
	}

	if result.DateOrder.Ambiguous != 2 {
		t.Errorf("Expected 2 ambiguous dates, got %d", result.DateOrder.Ambiguous)
	}

	if !strings.Contains(result.AmbiguityNote, "DD/MM") {
		t.Errorf("Expected ambiguity note naming DD/MM, got %q", result.AmbiguityNote)
	}
}

func TestDetector_DetectFromLines_MixedEvidence(t *testing.T) {
	d := New()
	result := d.DetectFromLines([]string{
		"13/05/2023, 10:00 - Alice: hi",
		"05/13/2023, 10:00 - Alice: hi",
	})

	if !strings.HasPrefix(result.AmbiguityNote, "Mixed date order") {
		t.Errorf("Expected a mixed evidence note, got %q", result.AmbiguityNote)
	}
}

func TestDetector_DetectFromLines_Conflict(t *testing.T) {
	d := New()
	result := d.DetectFromLines([]string{"1/1/24, 8:00 - Bob: hi"})

	if len(result.Conflicts) != 1 {
		t.Fatalf("Expected 1 conflict, got %d", len(result.Conflicts))
	}

	c := result.Conflicts[0]
	if c.Winner.Sender != "Bob" {
		t.Errorf("Expected winning sender Bob, got %q", c.Winner.Sender)
	}
	if c.Alternative.Sender != "- Bob" {
		t.Errorf("Expected alternative sender %q, got %q", "- Bob", c.Alternative.Sender)
	}
	if c.Winner.Pattern >= c.Alternative.Pattern {
		t.Errorf("Winner pattern %d should have priority over %d", c.Winner.Pattern, c.Alternative.Pattern)
	}

	// The no-separator pattern accepts the line too but never wins it.
	if len(result.Matches) < 2 {
		t.Fatalf("Expected at least 2 matching formats, got %d", len(result.Matches))
	}
	if result.Matches[1].WinCount != 0 {
		t.Errorf("Expected runner-up to win no lines, got %d", result.Matches[1].WinCount)
	}
	if result.Matches[1].Confidence != 1.0 {
		t.Errorf("Expected runner-up confidence 1.0, got %.2f", result.Matches[1].Confidence)
	}
}

func TestDetector_DetectFromLines_Empty(t *testing.T) {
	d := New()
	result := d.DetectFromLines(nil)

	if result.HasMatch() {
		t.Error("Expected no match for empty input")
	}
	if result.BestMatch() != nil {
		t.Error("Expected nil best match")
	}
	if result.Coverage() != 0 {
		t.Errorf("Expected zero coverage, got %f", result.Coverage())
	}
}

func TestDetector_DetectFromLines_NoMatch(t *testing.T) {
	lines := []string{
		"This is just plain text",
		"No timestamps here",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if result.HasMatch() {
		t.Error("Expected no match for lines without headers")
	}
	if result.SampledLines != 2 {
		t.Errorf("Expected 2 sampled lines, got %d", result.SampledLines)
	}
}

func TestDetector_WithSampleSize(t *testing.T) {
	d := New(WithSampleSize(50))
	if d.SampleSize() != 50 {
		t.Errorf("Expected sample size 50, got %d", d.SampleSize())
	}
}

func TestDetector_WithSampleSize_Invalid(t *testing.T) {
	d := New(WithSampleSize(-1))
	if d.SampleSize() != DefaultSampleSize {
		t.Errorf("Expected default sample size %d, got %d", DefaultSampleSize, d.SampleSize())
	}
}

func TestDetector_DetectFromReader_SampleSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("15/01/2023, 09:05 - Alice: hello\n\n")
	}

	d := New(WithSampleSize(5))
	result, err := d.DetectFromReader(context.Background(), strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("DetectFromReader failed: %v", err)
	}
	if result.SampledLines != 5 {
		t.Errorf("Expected 5 sampled lines, got %d", result.SampledLines)
	}
	if result.Lines[4].LineNum != 9 {
		t.Errorf("Expected fifth sample at line 9, got %d", result.Lines[4].LineNum)
	}
}

func TestDetector_DetectFromReader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New()
	_, err := d.DetectFromReader(ctx, strings.NewReader("15/01/2023, 09:05 - Alice: hello\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDetector_DetectFromReader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	d := New()
	_, err := d.DetectFromReader(context.Background(), iotest.ErrReader(boom))
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped read error, got %v", err)
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "chat.txt")

	// Byte order mark and CRLF endings as some exports produce them.
	content := "\ufeff[15/01/2023, 21:04:33] Alice: hello\r\n" +
		"[15/01/2023, 21:05:01] Bob: hi\r\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	d := New()
	result, err := d.DetectFromFile(context.Background(), tmpFile)
	if err != nil {
		t.Fatalf("DetectFromFile failed: %v", err)
	}

	best := result.BestMatch()
	if best == nil {
		t.Fatal("Expected to detect a format")
	}
	if best.Format.Name != "bracketed slash date" {
		t.Errorf("Expected bracketed slash date, got %s", best.Format.Name)
	}
	if best.MatchCount != 2 {
		t.Errorf("Expected 2 matches, got %d", best.MatchCount)
	}
}

func TestDetector_DetectFromFile_NotFound(t *testing.T) {
	d := New()
	_, err := d.DetectFromFile(context.Background(), "/nonexistent/chat.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestDefaultFormats(t *testing.T) {
	formats := DefaultFormats()
	if len(formats) == 0 {
		t.Fatal("Expected built-in formats")
	}

	for i, f := range formats {
		if f.Index != i {
			t.Errorf("Format %q has index %d, want %d", f.Name, f.Index, i)
		}
		if f.PatternStr == "" || f.Example == "" {
			t.Errorf("Format %q is missing its pattern or example", f.Name)
		}
	}

	if f := GetFormatByName("bracketed slash date"); f == nil || !f.Ambiguous {
		t.Errorf("Expected bracketed slash date to be ambiguous, got %+v", f)
	}
	if f := GetFormatByName("ISO date, dash separator"); f == nil || f.Ambiguous {
		t.Errorf("Expected ISO date format to be unambiguous, got %+v", f)
	}
	if GetFormatByName("no such format") != nil {
		t.Error("Expected nil for unknown format name")
	}
}
