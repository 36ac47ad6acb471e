package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietSummary is the JSON shape written in quiet mode.
type quietSummary struct {
	Source        string             `json:"source"`
	TotalMessages int                `json:"totalMessages"`
	Participants  int                `json:"participants"`
	DateRange     analyzer.DateRange `json:"dateRange"`
	Error         string             `json:"error,omitempty"`
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if f.opts.Quiet {
		s := quietSummary{Source: report.Source, Error: report.Error}
		if a := report.Analysis; a != nil {
			s.TotalMessages = a.TotalMessages
			s.Participants = len(a.Participants)
			s.DateRange = a.DateRange
		}
		return encoder.Encode(s)
	}

	return encoder.Encode(report)
}
