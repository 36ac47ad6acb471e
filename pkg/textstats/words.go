package textstats

import (
	"strings"
	"unicode"
)

// minWordLen is the shortest token kept; shorter tokens are discarded.
const minWordLen = 3

// ExtractWords splits a message body into lowercase word tokens.
//
// Emoji are removed first. Any rune that is not an ASCII letter, digit or
// underscore separates tokens, so accented letters and punctuation split
// words. Tokens shorter than three characters and stop words are dropped.
func ExtractWords(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len(word) < minWordLen || IsStopWord(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range StripEmojis(text) {
		r = unicode.ToLower(r)
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// isWordRune reports whether a lowercased rune belongs to a token.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9')
}
