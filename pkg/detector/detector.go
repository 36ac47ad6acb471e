// Package detector samples a chat export and reports which header formats it
// uses, how confidently, and where the day/month order is in doubt.
package detector

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// DefaultSampleSize is the number of non-blank lines sampled from the head of
// an export.
const DefaultSampleSize = 100

// DetectionResult holds the result of sampling an export.
type DetectionResult struct {
	Matches       []FormatMatch     `json:"matches"`       // Sorted by lines won, then lines matched
	SampledLines  int               `json:"sampledLines"`  // Non-blank lines sampled
	ParsedLines   int               `json:"parsedLines"`   // Sampled lines that open a message
	DateOrder     DateOrderEvidence `json:"dateOrder"`     // Day/month evidence from slash dates
	Conflicts     []Conflict        `json:"conflicts"`     // Lines where patterns disagree
	Lines         []LineResult      `json:"lines"`         // Per-line outcome, in input order
	AmbiguityNote string            `json:"ambiguityNote"` // Warning about date ordering if applicable
}

// FormatMatch is a header format that accepted at least one sampled line.
type FormatMatch struct {
	Format     *Format   `json:"format"`
	Confidence float64   `json:"confidence"` // 0.0 to 1.0 (share of sampled lines matched)
	MatchCount int       `json:"matchCount"` // Lines this format accepts
	WinCount   int       `json:"winCount"`   // Lines where this format has priority
	SampleLine string    `json:"sampleLine"` // First line this format accepted
	ParsedTime time.Time `json:"parsedTime"` // Timestamp read from SampleLine
}

// LineResult records how one sampled line was classified.
type LineResult struct {
	LineNum    int    `json:"lineNum"`
	Content    string `json:"content"`
	Winner     int    `json:"winner"`     // Pattern index, -1 when no header matched
	Candidates []int  `json:"candidates"` // Every pattern that accepts the line
}

// Conflict is a line that two patterns read differently.
type Conflict struct {
	LineNum     int         `json:"lineNum"`
	Line        string      `json:"line"`
	Winner      HeaderShape `json:"winner"`
	Alternative HeaderShape `json:"alternative"`
}

// HeaderShape is the sender and body one pattern extracts from a line.
type HeaderShape struct {
	Pattern int    `json:"pattern"`
	Name    string `json:"name"`
	Sender  string `json:"sender"`
	Body    string `json:"body"`
}

// DateOrderEvidence counts slash-dated headers by what they prove about the
// day/month order.
type DateOrderEvidence struct {
	DayFirst   int `json:"dayFirst"`   // First segment above 12
	MonthFirst int `json:"monthFirst"` // Second segment above 12
	Ambiguous  int `json:"ambiguous"`  // Both segments 12 or below
}

// Total returns the number of slash-dated headers seen.
func (e DateOrderEvidence) Total() int {
	return e.DayFirst + e.MonthFirst + e.Ambiguous
}

// Detector samples exports to identify their header formats.
type Detector struct {
	formats    []*Format
	classifier *parser.Classifier
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector over the built-in header patterns.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		classifier: parser.NewClassifier(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SampleSize returns the configured sample size.
func (d *Detector) SampleSize() int {
	return d.sampleSize
}

// DetectFromFile samples the head of an export file.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return d.DetectFromReader(ctx, file)
}

// DetectFromReader samples up to the configured number of non-blank lines
// from r.
func (d *Detector) DetectFromReader(ctx context.Context, r io.Reader) (*DetectionResult, error) {
	var lines []parser.Line
	src := parser.NewLineSource(r)
	for len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sampling export: %w", err)
		}
		if strings.TrimSpace(line.Content) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return d.detect(lines), nil
}

// DetectFromLines classifies every non-blank line given. Line numbers are
// positions in lines, starting at 1.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	sample := make([]parser.Line, 0, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		sample = append(sample, parser.Line{Content: l, LineNum: i + 1})
	}
	return d.detect(sample)
}

func (d *Detector) detect(lines []parser.Line) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}
	if len(lines) == 0 {
		return result
	}

	matches := make(map[int]*FormatMatch)
	for _, line := range lines {
		headers := d.classifier.MatchAll(line.Content)
		lr := LineResult{LineNum: line.LineNum, Content: line.Content, Winner: -1}

		for _, h := range headers {
			lr.Candidates = append(lr.Candidates, h.Pattern)
			m := matches[h.Pattern]
			if m == nil {
				m = &FormatMatch{
					Format:     d.formats[h.Pattern],
					SampleLine: line.Content,
					ParsedTime: h.Timestamp,
				}
				matches[h.Pattern] = m
			}
			m.MatchCount++
		}

		if len(headers) > 0 {
			winner := headers[0]
			lr.Winner = winner.Pattern
			matches[winner.Pattern].WinCount++
			result.ParsedLines++
			result.DateOrder.add(winner.DateStr)

			if c, ok := d.conflict(line, headers); ok {
				result.Conflicts = append(result.Conflicts, c)
			}
		}
		result.Lines = append(result.Lines, lr)
	}

	for _, m := range matches {
		m.Confidence = float64(m.MatchCount) / float64(len(lines))
		result.Matches = append(result.Matches, *m)
	}

	// Lines won decide what the parser will actually use; priority breaks ties.
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.WinCount != b.WinCount {
			return a.WinCount > b.WinCount
		}
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		return a.Format.Index < b.Format.Index
	})

	result.AmbiguityNote = result.DateOrder.note()
	return result
}

// conflict reports the first lower-priority header that extracts a different
// sender or body than the winner.
func (d *Detector) conflict(line parser.Line, headers []parser.Header) (Conflict, bool) {
	winner := headers[0]
	for _, h := range headers[1:] {
		if h.Sender == winner.Sender && h.Body == winner.Body {
			continue
		}
		return Conflict{
			LineNum:     line.LineNum,
			Line:        line.Content,
			Winner:      d.shape(winner),
			Alternative: d.shape(h),
		}, true
	}
	return Conflict{}, false
}

func (d *Detector) shape(h parser.Header) HeaderShape {
	return HeaderShape{
		Pattern: h.Pattern,
		Name:    d.formats[h.Pattern].Name,
		Sender:  h.Sender,
		Body:    h.Body,
	}
}

func (e *DateOrderEvidence) add(date string) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return
	}
	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}
	switch {
	case first > 12:
		e.DayFirst++
	case second > 12:
		e.MonthFirst++
	default:
		e.Ambiguous++
	}
}

func (e DateOrderEvidence) note() string {
	switch {
	case e.Total() == 0:
		return ""
	case e.DayFirst > 0 && e.MonthFirst > 0:
		return fmt.Sprintf("Mixed date order: %d header(s) prove DD/MM and %d prove MM/DD. "+
			"Each date is resolved on its own, ambiguous ones as DD/MM.", e.DayFirst, e.MonthFirst)
	case e.MonthFirst > 0 && e.Ambiguous > 0:
		return fmt.Sprintf("This export looks month-first (%d header(s) prove MM/DD), but %d ambiguous "+
			"date(s) will be read as DD/MM.", e.MonthFirst, e.Ambiguous)
	case e.DayFirst == 0 && e.MonthFirst == 0:
		return fmt.Sprintf("All %d slash date(s) are ambiguous (both parts 12 or below) and will be "+
			"read as DD/MM. Verify against a date later than the 12th of a month.", e.Ambiguous)
	default:
		return ""
	}
}

// BestMatch returns the format that wins the most lines, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Coverage returns the share of sampled lines that open a message.
func (r *DetectionResult) Coverage() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.ParsedLines) / float64(r.SampledLines)
}
