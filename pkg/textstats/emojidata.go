package textstats

import "strings"

// EmojiCategory is the coarse sentiment bucket of an emoji.
type EmojiCategory string

const (
	CategoryHappy   EmojiCategory = "happy"
	CategoryLove    EmojiCategory = "love"
	CategorySad     EmojiCategory = "sad"
	CategoryExcited EmojiCategory = "excited"
	CategoryAngry   EmojiCategory = "angry"
	CategoryOther   EmojiCategory = "other"
)

// UnknownEmojiName is returned by EmojiName for glyphs missing from the table.
const UnknownEmojiName = "Unknown Emoji"

// variationSelector16 requests emoji presentation; it never changes identity.
const variationSelector16 = "\ufe0f"

var emojiNames = normalizeKeys(map[string]string{
	"😂": "Face with Tears of Joy",
	"❤": "Red Heart",
	"😍": "Smiling Face with Heart-Eyes",
	"🤣": "Rolling on Floor Laughing",
	"😊": "Smiling Face with Smiling Eyes",
	"🙏": "Folded Hands",
	"😘": "Face Blowing a Kiss",
	"💕": "Two Hearts",
	"😭": "Loudly Crying Face",
	"😅": "Grinning Face with Sweat",
	"👍": "Thumbs Up",
	"🔥": "Fire",
	"💯": "Hundred Points Symbol",
	"👏": "Clapping Hands",
	"😎": "Smiling Face with Sunglasses",
	"😉": "Winking Face",
	"😄": "Grinning Face with Smiling Eyes",
	"😃": "Grinning Face",
	"😀": "Grinning Face",
	"😆": "Grinning Squinting Face",
	"😁": "Beaming Face with Smiling Eyes",
	"🥰": "Smiling Face with Hearts",
	"😋": "Face Savoring Food",
	"😌": "Relieved Face",
	"😏": "Smirking Face",
	"🤔": "Thinking Face",
	"🙄": "Face with Rolling Eyes",
	"😒": "Unamused Face",
	"😔": "Pensive Face",
	"😢": "Crying Face",
	"😞": "Disappointed Face",
	"😟": "Worried Face",
	"😕": "Slightly Frowning Face",
	"🙁": "Slightly Frowning Face",
	"☹": "Frowning Face",
	"😤": "Face with Steam From Nose",
	"😠": "Angry Face",
	"😡": "Pouting Face",
	"🤬": "Face with Symbols on Mouth",
	"😱": "Face Screaming in Fear",
	"😨": "Fearful Face",
	"😰": "Anxious Face with Sweat",
	"😥": "Sad but Relieved Face",
	"😓": "Downcast Face with Sweat",
	"🤗": "Hugging Face",
	"🤭": "Face with Hand Over Mouth",
	"🤫": "Shushing Face",
	"🤥": "Lying Face",
	"😶": "Face Without Mouth",
	"😐": "Neutral Face",
	"😑": "Expressionless Face",
	"😬": "Grimacing Face",
	"🙃": "Upside-Down Face",
	"😯": "Hushed Face",
	"😦": "Frowning Face with Open Mouth",
	"😧": "Anguished Face",
	"😮": "Face with Open Mouth",
	"😲": "Astonished Face",
	"🥱": "Yawning Face",
	"😴": "Sleeping Face",
	"🤤": "Drooling Face",
	"😪": "Sleepy Face",
	"😵": "Dizzy Face",
	"🤐": "Zipper-Mouth Face",
	"🥴": "Woozy Face",
	"🤢": "Nauseated Face",
	"🤮": "Face Vomiting",
	"🤧": "Sneezing Face",
	"😷": "Face with Medical Mask",
	"🤒": "Face with Thermometer",
	"🤕": "Face with Head-Bandage",
})

// emojiCategories maps each categorized glyph to its bucket. The lists are
// disjoint; anything absent is CategoryOther.
var emojiCategories = buildCategories(map[EmojiCategory][]string{
	CategoryHappy:   {"😂", "🤣", "😊", "😄", "😃", "😀", "😆", "😁", "😉", "😋", "😌", "🥰", "🤗"},
	CategoryLove:    {"❤", "😍", "😘", "💕", "💖", "💗", "💓", "💝", "💘", "💞", "💟", "♥", "💋"},
	CategorySad:     {"😭", "😢", "😞", "😔", "😟", "😕", "🙁", "☹", "😥", "😓", "😰", "😨", "😱"},
	CategoryExcited: {"🔥", "💯", "🎉", "🎊", "✨", "⭐", "🌟", "💫", "🚀", "⚡", "💥", "🎯", "🏆"},
	CategoryAngry:   {"😤", "😠", "😡", "🤬", "👿", "😈"},
})

// EmojiName returns the display name of an emoji, or UnknownEmojiName.
func EmojiName(emoji string) string {
	if name, ok := emojiNames[normalizeEmoji(emoji)]; ok {
		return name
	}
	return UnknownEmojiName
}

// EmojiCategoryOf returns the sentiment bucket of an emoji.
func EmojiCategoryOf(emoji string) EmojiCategory {
	if c, ok := emojiCategories[normalizeEmoji(emoji)]; ok {
		return c
	}
	return CategoryOther
}

func normalizeEmoji(emoji string) string {
	return strings.ReplaceAll(emoji, variationSelector16, "")
}

func normalizeKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[normalizeEmoji(k)] = v
	}
	return out
}

func buildCategories(lists map[EmojiCategory][]string) map[string]EmojiCategory {
	out := make(map[string]EmojiCategory)
	for category, glyphs := range lists {
		for _, g := range glyphs {
			out[normalizeEmoji(g)] = category
		}
	}
	return out
}
