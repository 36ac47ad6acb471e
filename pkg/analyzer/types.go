// Package analyzer folds a parsed chat export into an aggregate activity report.
package analyzer

import "github.com/ccollicutt/chatlens/pkg/textstats"

// Report is the aggregate analysis of one chat export. Every field is derived
// from usable messages only.
type Report struct {
	TotalMessages  int              `json:"totalMessages"`
	TotalWords     int              `json:"totalWords"`
	Participants   []string         `json:"participants"`
	DateRange      DateRange        `json:"dateRange"`
	TopEmojis      []string         `json:"topEmojis"`
	DailyActivity  []DailyActivity  `json:"dailyActivity"`
	HourlyActivity []HourlyActivity `json:"hourlyActivity"`
	UserStats      []UserStats      `json:"userStats"`
	WordFrequency  []WordCount      `json:"wordFrequency"`
	MediaCount     int              `json:"mediaCount"`
	EmojiStats     []EmojiStat      `json:"emojiStats"`
}

// DateRange spans the earliest and latest message, as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DailyActivity is the message count for one calendar day.
type DailyActivity struct {
	Date     string `json:"date"`
	Messages int    `json:"messages"`
}

// HourlyActivity is the message count for one hour of the day, 0-23.
type HourlyActivity struct {
	Hour     int `json:"hour"`
	Messages int `json:"messages"`
}

// UserStats summarizes one participant.
type UserStats struct {
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	Words    int    `json:"words"`

	// AvgLength is words per message.
	AvgLength float64 `json:"avgLength"`

	// Color is a palette entry picked by the participant's rank.
	Color string `json:"color"`
}

// WordCount is one entry of the word frequency table.
type WordCount struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// EmojiStat is one entry of the emoji frequency table.
type EmojiStat struct {
	Emoji    string                  `json:"emoji"`
	Name     string                  `json:"name"`
	Count    int                     `json:"count"`
	Category textstats.EmojiCategory `json:"category"`
}

// Report limits.
const (
	TopEmojiLimit      = 10
	EmojiStatsLimit    = 20
	WordFrequencyLimit = 50
	HoursPerDay        = 24
)

// Palette colors participants by rank; it repeats after eight entries.
var Palette = [...]string{
	"#8B5CF6", "#06B6D4", "#10B981", "#F59E0B",
	"#EF4444", "#EC4899", "#F97316", "#84CC16",
}

// dateLayout formats day keys and the date range.
const dateLayout = "2006-01-02"
