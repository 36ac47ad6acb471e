// Package output provides the report envelope and its text and JSON renderings.
package output

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Report is the complete result of analyzing one export, successful or not.
type Report struct {
	// RunID uniquely identifies this analysis run.
	RunID string `json:"runId"`

	// Source names the analyzed export (file path or upload name).
	Source string `json:"source"`

	// AnalyzedAt is when the analysis finished.
	AnalyzedAt time.Time `json:"analyzedAt"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`

	// Stats are the parse counters, present on success and failure.
	Stats parser.Stats `json:"stats"`

	// Analysis is nil when the export could not be analyzed.
	Analysis *analyzer.Report `json:"analysis,omitempty"`

	// Error describes the failure, if any.
	Error string `json:"error,omitempty"`
}

// NewRunID returns a new lexically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// NewReport wraps the outcome of one analysis. Exactly one of res and err is
// expected to be non-nil; parse counters are recovered from a
// *analyzer.ParseError.
func NewReport(source string, started time.Time, res *analyzer.Result, err error) *Report {
	now := time.Now()
	report := &Report{
		RunID:      NewRunID(),
		Source:     source,
		AnalyzedAt: now,
		Duration:   now.Sub(started),
	}

	if err != nil {
		report.Error = err.Error()
		var pe *analyzer.ParseError
		if errors.As(err, &pe) {
			report.Stats = pe.Stats
		}
		return report
	}

	if res != nil {
		report.Analysis = res.Report
		report.Stats = res.Stats
	}
	return report
}

// Succeeded returns true if the report holds an analysis.
func (r *Report) Succeeded() bool {
	return r.Analysis != nil
}
