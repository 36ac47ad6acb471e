package parser

import "strings"

// invisibleMarks are directional and byte-order marks some exports put in
// front of a header.
const invisibleMarks = "\u200e\u200f\ufeff"

// Classifier decides whether a raw line opens a new message.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	patterns []HeaderPattern
}

// NewClassifier creates a classifier over the built-in header patterns.
func NewClassifier() *Classifier {
	return &Classifier{patterns: headerPatterns}
}

// Classify tries each header pattern in order and returns the first one whose
// date and time resolve. The boolean is false when the line is not a header.
func (c *Classifier) Classify(line string) (Header, bool) {
	line = strings.TrimLeft(line, invisibleMarks)
	for i := range c.patterns {
		if h, ok := c.try(i, line); ok {
			return h, true
		}
	}
	return Header{}, false
}

// MatchAll returns a header for every pattern that accepts the line, in
// pattern order. Classify's result, when there is one, is the first element.
func (c *Classifier) MatchAll(line string) []Header {
	line = strings.TrimLeft(line, invisibleMarks)
	var out []Header
	for i := range c.patterns {
		if h, ok := c.try(i, line); ok {
			out = append(out, h)
		}
	}
	return out
}

func (c *Classifier) try(i int, line string) (Header, bool) {
	m := c.patterns[i].Pattern.FindStringSubmatch(line)
	if len(m) < 5 {
		return Header{}, false
	}
	ts, err := ResolveTimestamp(m[1], m[2])
	if err != nil {
		return Header{}, false
	}
	sender := strings.TrimSpace(m[3])
	if sender == "" {
		return Header{}, false
	}
	return Header{
		Pattern:   i,
		DateStr:   m[1],
		TimeStr:   m[2],
		Sender:    sender,
		Body:      strings.TrimSpace(m[4]),
		Timestamp: ts,
	}, true
}
