// Package parser turns raw chat export text into an ordered stream of messages.
package parser

import (
	"strings"
	"time"
)

// Line is a raw export line before classification.
type Line struct {
	// Content is the line text with any trailing carriage return removed.
	Content string

	// LineNum is the 1-based line number in the export.
	LineNum int
}

// LineKind is how the assembler treated a line.
type LineKind int

const (
	LineBlank        LineKind = iota // whitespace only, skipped
	LineHeader                       // opened a new message
	LineContinuation                 // appended to the message in progress
	LineDropped                      // unmatched, before any header
)

// Header holds the fields extracted from a line that opens a new message.
type Header struct {
	// Pattern is the index into HeaderPatterns() of the pattern that matched.
	Pattern int

	DateStr string
	TimeStr string
	Sender  string
	Body    string

	// Timestamp is the resolved wall-clock time of the message.
	Timestamp time.Time
}

// ParsedMessage is one complete chat message, possibly spanning several lines.
type ParsedMessage struct {
	// Timestamp is the wall-clock time from the export, stored in UTC
	// without any zone conversion.
	Timestamp time.Time `json:"timestamp"`

	// Sender is the trimmed display name of the author.
	Sender string `json:"sender"`

	// Message is the body; continuation lines are joined with "\n".
	Message string `json:"message"`

	// IsSystemMessage is true for service notices (joins, encryption banner, ...).
	IsSystemMessage bool `json:"isSystemMessage"`

	// LineNum is the line number of the header that opened the message.
	LineNum int `json:"lineNum"`
}

// Usable reports whether the message counts toward statistics.
func (m ParsedMessage) Usable() bool {
	return !m.IsSystemMessage && strings.TrimSpace(m.Message) != ""
}

// Stats holds diagnostic counters collected while parsing an export.
type Stats struct {
	// TotalLines is every physical line read, blank ones included.
	TotalLines int `json:"totalLines"`

	// NonEmptyLines is the number of lines with non-whitespace content.
	NonEmptyLines int `json:"nonEmptyLines"`

	// MatchedLines is the number of lines that opened a new message.
	MatchedLines int `json:"matchedLines"`

	// ContinuationLines were appended to the message in progress.
	ContinuationLines int `json:"continuationLines"`

	// DroppedLines were unmatched lines seen before the first header.
	DroppedLines int `json:"droppedLines"`

	Messages       int `json:"messages"`
	SystemMessages int `json:"systemMessages"`
	UsableMessages int `json:"usableMessages"`

	// PatternHits counts header matches per pattern index.
	PatternHits []int `json:"patternHits"`
}

func newStats() Stats {
	return Stats{PatternHits: make([]int, len(headerPatterns))}
}
