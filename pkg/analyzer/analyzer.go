package analyzer

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// maxLoggedUnmatched caps how many unmatched lines are logged per export.
const maxLoggedUnmatched = 10

// Analyzer runs the full pipeline: line source, classifier, assembler and
// aggregation. It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	logger *zap.Logger
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is a successful analysis.
type Result struct {
	Report *Report
	Stats  parser.Stats
}

// Analyze reads an export and builds its report in one pass.
//
// When nothing usable is found the error is a *ParseError carrying the parse
// counters; errors.Is(err, ErrNoMessagesParsed) holds for it. Read errors
// from r are returned wrapped.
func (a *Analyzer) Analyze(r io.Reader) (*Result, error) {
	start := time.Now()
	agg := newAggregation()
	asm := parser.NewAssembler(agg.Add)
	src := parser.NewLineSource(r)

	unmatched := 0
	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading export: %w", err)
		}

		if asm.Feed(line) == parser.LineDropped && unmatched < maxLoggedUnmatched {
			unmatched++
			a.logger.Debug("unmatched line before first header",
				zap.Int("line", line.LineNum),
				zap.String("content", line.Content))
		}
	}
	asm.Flush()

	stats := asm.Stats()
	a.logger.Debug("parsed export",
		zap.Int("total_lines", stats.TotalLines),
		zap.Int("non_empty_lines", stats.NonEmptyLines),
		zap.Int("header_lines", stats.MatchedLines),
		zap.Int("continuation_lines", stats.ContinuationLines),
		zap.Int("dropped_lines", stats.DroppedLines),
		zap.Int("messages", stats.Messages),
		zap.Int("system_messages", stats.SystemMessages),
		zap.Int("usable_messages", stats.UsableMessages),
		zap.Ints("pattern_hits", stats.PatternHits))

	if stats.NonEmptyLines == 0 {
		return nil, &ParseError{Stats: stats, Err: ErrEmptyInput}
	}

	report, err := agg.Report()
	if err != nil {
		return nil, &ParseError{Stats: stats, Err: err}
	}

	a.logger.Debug("analysis complete",
		zap.Int("messages", report.TotalMessages),
		zap.Int("words", report.TotalWords),
		zap.Int("participants", len(report.Participants)),
		zap.String("start", report.DateRange.Start),
		zap.String("end", report.DateRange.End),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Report: report, Stats: stats}, nil
}
