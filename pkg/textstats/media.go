package textstats

import "strings"

// mediaMarkers are the placeholders an export writes instead of attachments.
// Some clients prefix them with U+200E, which Contains already tolerates.
var mediaMarkers = []string{
	"<Media omitted>",
	"image omitted",
	"video omitted",
	"audio omitted",
	"document omitted",
	"sticker omitted",
	"GIF omitted",
}

// IsMedia reports whether a message body stands in for an attachment.
func IsMedia(text string) bool {
	for _, m := range mediaMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
