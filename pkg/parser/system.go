package parser

import "regexp"

// systemPatterns recognize service notices the export interleaves with
// authored messages. Matching is case-insensitive.
var systemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)created group`),
	regexp.MustCompile(`(?i)\badded\b`),
	regexp.MustCompile(`(?i)\bleft\b`),
	regexp.MustCompile(`(?i)\bremoved\b`),
	regexp.MustCompile(`(?i)changed the subject`),
	regexp.MustCompile(`(?i)changed this group's icon`),
	regexp.MustCompile(`(?i)security code changed`),
	regexp.MustCompile(`(?i)messages and calls are end-to-end encrypted`),
	regexp.MustCompile(`(?i)missed voice call`),
	regexp.MustCompile(`(?i)missed video call`),
	regexp.MustCompile(`(?i)deleted this message`),
	regexp.MustCompile(`(?i)this message was deleted`),
}

// IsSystemMessage reports whether a message body is a service notice.
func IsSystemMessage(body string) bool {
	for _, p := range systemPatterns {
		if p.MatchString(body) {
			return true
		}
	}
	return false
}
