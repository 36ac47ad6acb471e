package detector

import (
	"strings"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Format describes a header pattern as the detector reports it.
type Format struct {
	Index      int    `json:"index"`     // Position in parser.HeaderPatterns()
	Name       string `json:"name"`      // Human-readable name
	PatternStr string `json:"pattern"`   // Expression source
	Example    string `json:"example"`   // A header line this format accepts
	Ambiguous  bool   `json:"ambiguous"` // Slash dates: day/month order is inferred per line
}

// DefaultFormats returns one Format per built-in header pattern, in priority
// order.
func DefaultFormats() []*Format {
	c := parser.NewClassifier()
	patterns := parser.HeaderPatterns()

	formats := make([]*Format, 0, len(patterns))
	for i, p := range patterns {
		f := &Format{
			Index:      i,
			Name:       p.Name,
			PatternStr: p.PatternStr,
			Example:    p.Example,
		}
		if h, ok := c.Classify(p.Example); ok {
			f.Ambiguous = strings.Contains(h.DateStr, "/")
		}
		formats = append(formats, f)
	}
	return formats
}

// GetFormatByName returns the format with the given name, or nil if not found.
func GetFormatByName(name string) *Format {
	for _, f := range DefaultFormats() {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}
