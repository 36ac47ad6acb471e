// Package textstats extracts the per-message features the aggregate report is
// built from: emoji glyphs, filtered word tokens and media markers.
//
// Every function is pure and the lookup tables are never modified after
// package initialization, so the package is safe for concurrent use.
package textstats

import (
	"strings"
	"unicode"
)

// emojiRanges are the code point blocks counted as emoji glyphs. Variation
// selectors and joiners fall outside them and are never emitted.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // Miscellaneous Symbols
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // Dingbats
	},
	R32: []unicode.Range32{
		{Lo: 0x1F018, Hi: 0x1F270, Stride: 1}, // enclosed alphanumerics, regional indicators
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport and map
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols
	},
}

// IsEmoji reports whether r is counted as an emoji glyph.
func IsEmoji(r rune) bool {
	return unicode.Is(emojiRanges, r)
}

// ExtractEmojis returns every emoji glyph in text, in order of appearance.
// Repeated glyphs are returned once per occurrence.
func ExtractEmojis(text string) []string {
	var out []string
	for _, r := range text {
		if IsEmoji(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// StripEmojis removes every emoji glyph from text.
func StripEmojis(text string) string {
	return strings.Map(func(r rune) rune {
		if IsEmoji(r) {
			return -1
		}
		return r
	}, text)
}
