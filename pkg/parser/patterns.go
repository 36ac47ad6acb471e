package parser

import "regexp"

// HeaderPattern is one known shape of a message header line.
// Every pattern captures four groups: date, time, sender, body.
type HeaderPattern struct {
	Name       string         // Human-readable name
	PatternStr string         // Expression source, for diagnostics
	Pattern    *regexp.Regexp // Compiled expression
	Example    string         // A line this pattern accepts
}

// Building blocks shared by the header expressions.
const (
	slashDate  = `\d{1,2}/\d{1,2}/\d{2,4}`
	dotDate    = `\d{1,2}\.\d{1,2}\.\d{2,4}`
	hyphenDate = `\d{1,2}-\d{1,2}-\d{2,4}`
	isoDate    = `\d{4}-\d{1,2}-\d{1,2}`

	clock   = `\d{1,2}:\d{2}(?::\d{2})?`
	clock12 = clock + `[\s\x{00A0}\x{202F}]*(?i:am|pm)`

	dashSep  = `\s*[-–—]\s*`
	author   = `([^:]+?):\s*(.*)$`
	dateTime = `,?\s+`
)

// headerPatterns is the ordered header list. The first pattern whose date and
// time also resolve wins, so order is significant. Entries after the
// no-separator pair only accept line shapes none of the earlier ones can.
var headerPatterns = compileHeaderPatterns([]HeaderPattern{
	{
		Name:       "slash date, dash separator",
		PatternStr: `^(` + slashDate + `)` + dateTime + `(` + clock + `)` + dashSep + author,
		Example:    "15/01/2023, 09:05 - Alice: hello",
	},
	{
		Name:       "dot date, dash separator",
		PatternStr: `^(` + dotDate + `)` + dateTime + `(` + clock + `)` + dashSep + author,
		Example:    "15.01.23, 09:05 - Alice: hello",
	},
	{
		Name:       "hyphen date, dash separator",
		PatternStr: `^(` + hyphenDate + `)` + dateTime + `(` + clock + `)` + dashSep + author,
		Example:    "15-01-2023, 09:05 - Alice: hello",
	},
	{
		Name:       "bracketed slash date",
		PatternStr: `^\[(` + slashDate + `)` + dateTime + `(` + clock + `)\]\s*` + author,
		Example:    "[15/01/2023, 09:05:12] Alice: hello",
	},
	{
		Name:       "bracketed dot date",
		PatternStr: `^\[(` + dotDate + `)` + dateTime + `(` + clock + `)\]\s*` + author,
		Example:    "[15.01.23, 09:05:12] Alice: hello",
	},
	{
		Name:       "slash date, 12-hour clock, dash separator",
		PatternStr: `^(` + slashDate + `)` + dateTime + `(` + clock12 + `)` + dashSep + author,
		Example:    "1/15/23, 9:05 AM - Alice: hello",
	},
	{
		Name:       "dot date, 12-hour clock, dash separator",
		PatternStr: `^(` + dotDate + `)` + dateTime + `(` + clock12 + `)` + dashSep + author,
		Example:    "15.01.23, 9:05 pm - Alice: hello",
	},
	{
		Name:       "ISO date, dash separator",
		PatternStr: `^(` + isoDate + `)\s+(` + clock + `)` + dashSep + author,
		Example:    "2023-01-15 09:05 - Alice: hello",
	},
	{
		Name:       "slash date, no separator",
		PatternStr: `^(` + slashDate + `)` + dateTime + `(` + clock + `)\s+` + author,
		Example:    "15/01/2023, 09:05 Alice: hello",
	},
	{
		Name:       "dot date, no separator",
		PatternStr: `^(` + dotDate + `)` + dateTime + `(` + clock + `)\s+` + author,
		Example:    "15.01.2023, 09:05 Alice: hello",
	},
	{
		Name:       "bracketed slash date, 12-hour clock",
		PatternStr: `^\[(` + slashDate + `)` + dateTime + `(` + clock12 + `)\]\s*` + author,
		Example:    "[1/15/23, 9:05:12 AM] Alice: hello",
	},
	{
		Name:       "bracketed dot date, 12-hour clock",
		PatternStr: `^\[(` + dotDate + `)` + dateTime + `(` + clock12 + `)\]\s*` + author,
		Example:    "[15.01.23, 9:05:12 PM] Alice: hello",
	},
	{
		Name: "bracketed hyphen or ISO date",
		PatternStr: `^\[(` + isoDate + `|` + hyphenDate + `)` + dateTime +
			`(` + clock + `(?:[\s\x{00A0}\x{202F}]*(?i:am|pm))?)\]\s*` + author,
		Example: "[2023-01-15, 09:05:12] Alice: hello",
	},
	{
		Name:       "hyphen date, 12-hour clock, dash separator",
		PatternStr: `^(` + hyphenDate + `)` + dateTime + `(` + clock12 + `)` + dashSep + author,
		Example:    "15-01-2023, 9:05 PM - Alice: hello",
	},
	{
		Name:       "ISO date, 12-hour clock, dash separator",
		PatternStr: `^(` + isoDate + `)` + dateTime + `(` + clock12 + `)` + dashSep + author,
		Example:    "2023-01-15, 9:05 PM - Alice: hello",
	},
})

func compileHeaderPatterns(patterns []HeaderPattern) []HeaderPattern {
	for i := range patterns {
		patterns[i].Pattern = regexp.MustCompile(patterns[i].PatternStr)
	}
	return patterns
}

// HeaderPatterns returns a copy of the ordered header pattern list.
func HeaderPatterns() []HeaderPattern {
	out := make([]HeaderPattern, len(headerPatterns))
	copy(out, headerPatterns)
	return out
}
