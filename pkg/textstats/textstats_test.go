package textstats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractEmojis(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text", nil},
		{"single", "hi 😊", []string{"😊"}},
		{"order and duplicates", "🔥a😂🔥", []string{"🔥", "😂", "🔥"}},
		{"variation selector dropped", "love ❤\ufe0f", []string{"❤"}},
		{"dingbat and misc symbol", "✨ ☀", []string{"✨", "☀"}},
		{"regional indicators", "\U0001F1EC\U0001F1E7", []string{"\U0001F1EC", "\U0001F1E7"}},
		{"supplemental", "🥰🤗", []string{"🥰", "🤗"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEmojis(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractEmojis(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestStripEmojis(t *testing.T) {
	if got := StripEmojis("a😊b🔥c"); got != "abc" {
		t.Errorf("StripEmojis() = %q, want abc", got)
	}
}

func TestExtractWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases", "Hello WORLD", []string{"hello", "world"}},
		{"drops short tokens", "go to the zoo now", []string{"zoo"}},
		{"drops stop words", "this is just like that", nil},
		{"punctuation separates", "don't stop-believing!", []string{"don", "stop", "believing"}},
		{"underscore and digits kept", "snake_case v2024", []string{"snake_case", "v2024"}},
		{"emoji stripped", "pizza😋party", []string{"pizzaparty"}},
		{"non ascii letters separate", "café résumé", []string{"caf", "sum"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractWords(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractWords(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "well", "first", "year"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"pizza", "The", ""} {
		if IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = true, want false", w)
		}
	}
}

func TestIsMedia(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"<Media omitted>", true},
		{"\u200eimage omitted", true},
		{"video omitted", true},
		{"audio omitted", true},
		{"\u200edocument omitted", true},
		{"sticker omitted", true},
		{"GIF omitted", true},
		{"I omitted the image", false},
		{"hello", false},
	}

	for _, tt := range tests {
		if got := IsMedia(tt.text); got != tt.want {
			t.Errorf("IsMedia(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestEmojiName(t *testing.T) {
	tests := []struct {
		emoji string
		want  string
	}{
		{"😂", "Face with Tears of Joy"},
		{"❤", "Red Heart"},
		{"❤\ufe0f", "Red Heart"},
		{"☹\ufe0f", "Frowning Face"},
		{"🦄", UnknownEmojiName},
	}

	for _, tt := range tests {
		if got := EmojiName(tt.emoji); got != tt.want {
			t.Errorf("EmojiName(%q) = %q, want %q", tt.emoji, got, tt.want)
		}
	}
}

func TestEmojiCategoryOf(t *testing.T) {
	tests := []struct {
		emoji string
		want  EmojiCategory
	}{
		{"😊", CategoryHappy},
		{"❤", CategoryLove},
		{"♥\ufe0f", CategoryLove},
		{"😭", CategorySad},
		{"☹", CategorySad},
		{"🚀", CategoryExcited},
		{"⚡", CategoryExcited},
		{"😡", CategoryAngry},
		{"👍", CategoryOther},
	}

	for _, tt := range tests {
		if got := EmojiCategoryOf(tt.emoji); got != tt.want {
			t.Errorf("EmojiCategoryOf(%q) = %q, want %q", tt.emoji, got, tt.want)
		}
	}
}
