package analyzer

import (
	"errors"
	"fmt"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

var (
	// ErrNoMessagesParsed means the export held no usable messages.
	ErrNoMessagesParsed = errors.New("no messages could be parsed from the export")

	// ErrEmptyInput means the export had no non-empty lines at all.
	ErrEmptyInput = fmt.Errorf("export is empty: %w", ErrNoMessagesParsed)
)

// ParseError reports a failed analysis together with the parse counters
// gathered before the failure, so callers can explain what went wrong.
type ParseError struct {
	Stats parser.Stats
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v (%d non-empty lines, %d header lines, %d usable messages)",
		e.Err, e.Stats.NonEmptyLines, e.Stats.MatchedLines, e.Stats.UsableMessages)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
