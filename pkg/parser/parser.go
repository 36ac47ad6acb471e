package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single physical line. Long pasted messages can be large.
const maxLineSize = 4 * 1024 * 1024

// LineSource reads raw lines from an export.
// It is meant for sequential access only.
type LineSource struct {
	scanner *bufio.Scanner
	lineNum int
}

// NewLineSource creates a LineSource over r. Both "\n" and "\r\n" line
// endings are accepted.
func NewLineSource(r io.Reader) *LineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &LineSource{scanner: scanner}
}

// Next returns the next line, or io.EOF when the input is exhausted.
func (s *LineSource) Next() (Line, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return Line{}, fmt.Errorf("line %d: %w", s.lineNum+1, err)
		}
		return Line{}, io.EOF
	}
	s.lineNum++

	text := strings.TrimSuffix(s.scanner.Text(), "\r")
	if s.lineNum == 1 {
		text = strings.TrimPrefix(text, "\ufeff")
	}
	return Line{Content: text, LineNum: s.lineNum}, nil
}

// Parse runs the whole export through the assembler and returns every message
// in input order, system notices included, with the parse counters.
func Parse(r io.Reader) ([]ParsedMessage, Stats, error) {
	var messages []ParsedMessage
	asm := NewAssembler(func(m ParsedMessage) {
		messages = append(messages, m)
	})

	src := NewLineSource(r)
	for {
		line, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, asm.Stats(), fmt.Errorf("reading export: %w", err)
		}
		asm.Feed(line)
	}
	asm.Flush()

	return messages, asm.Stats(), nil
}

// ParseString is Parse over an in-memory export.
func ParseString(text string) ([]ParsedMessage, Stats, error) {
	return Parse(strings.NewReader(text))
}

// Usable returns the subsequence of messages that count toward statistics.
func Usable(messages []ParsedMessage) []ParsedMessage {
	out := make([]ParsedMessage, 0, len(messages))
	for _, m := range messages {
		if m.Usable() {
			out = append(out, m)
		}
	}
	return out
}
