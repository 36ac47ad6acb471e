package analyzer

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/chatlens/pkg/parser"
	"github.com/ccollicutt/chatlens/pkg/textstats"
)

func msg(sender, body string, ts time.Time) parser.ParsedMessage {
	return parser.ParsedMessage{
		Timestamp:       ts,
		Sender:          sender,
		Message:         body,
		IsSystemMessage: parser.IsSystemMessage(body),
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2023, 1, day, hour, minute, 0, 0, time.UTC)
}

func TestAggregate_TwoSenders(t *testing.T) {
	messages, _, err := parser.ParseString(
		"1/15/23, 9:05 AM - Alice: hello there\n1/15/23, 9:06 AM - Bob: hi 😊\n")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	r, err := Aggregate(messages)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if r.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", r.TotalMessages)
	}
	if diff := cmp.Diff([]string{"Alice", "Bob"}, r.Participants); diff != "" {
		t.Errorf("Participants mismatch (-want +got):\n%s", diff)
	}
	if r.HourlyActivity[9].Messages != 2 {
		t.Errorf("HourlyActivity[9] = %d, want 2", r.HourlyActivity[9].Messages)
	}
	wantEmoji := EmojiStat{Emoji: "😊", Name: "Smiling Face with Smiling Eyes", Count: 1, Category: textstats.CategoryHappy}
	if diff := cmp.Diff([]EmojiStat{wantEmoji}, r.EmojiStats); diff != "" {
		t.Errorf("EmojiStats mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_SystemOnlySenderExcluded(t *testing.T) {
	messages := []parser.ParsedMessage{
		msg("Alice", `Alice created group "Trip"`, at(1, 8, 0)),
		msg("Bob", "who is coming?", at(1, 8, 1)),
	}

	r, err := Aggregate(messages)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if r.TotalMessages != 1 {
		t.Errorf("TotalMessages = %d, want 1", r.TotalMessages)
	}
	if diff := cmp.Diff([]string{"Bob"}, r.Participants); diff != "" {
		t.Errorf("Participants mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_NoUsableMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []parser.ParsedMessage
	}{
		{"nil", nil},
		{"only system", []parser.ParsedMessage{msg("Alice", "Alice added Bob", at(1, 8, 0))}},
		{"blank body", []parser.ParsedMessage{msg("Alice", "   ", at(1, 8, 0))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Aggregate(tt.messages)
			if !errors.Is(err, ErrNoMessagesParsed) {
				t.Errorf("Aggregate() error = %v, want ErrNoMessagesParsed", err)
			}
			if r != nil {
				t.Errorf("Aggregate() report = %+v, want nil", r)
			}
		})
	}
}

func TestAggregate_UserRankingAndColors(t *testing.T) {
	var messages []parser.ParsedMessage
	// Nine senders; the ninth wraps around the palette.
	senders := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for i, s := range senders {
		for n := 0; n <= i; n++ {
			messages = append(messages, msg(s, "message text", at(2, 10, n)))
		}
	}
	// A tie with "a" that appears later must rank after it.
	messages = append(messages, msg("z", "message text", at(3, 10, 0)))

	r, err := Aggregate(messages)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	var names, colors []string
	for _, u := range r.UserStats {
		names = append(names, u.Name)
		colors = append(colors, u.Color)
	}
	wantNames := []string{"i", "h", "g", "f", "e", "d", "c", "b", "a", "z"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Errorf("user order mismatch (-want +got):\n%s", diff)
	}
	for rank, c := range colors {
		if want := Palette[rank%len(Palette)]; c != want {
			t.Errorf("rank %d color = %s, want %s", rank, c, want)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "z"}, r.Participants); diff != "" {
		t.Errorf("Participants mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_AverageLength(t *testing.T) {
	messages := []parser.ParsedMessage{
		msg("Alice", "pizza party tonight", at(1, 8, 0)),
		msg("Alice", "ok", at(1, 8, 1)),
	}
	r, err := Aggregate(messages)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if got := r.UserStats[0].AvgLength; got != 1.5 {
		t.Errorf("AvgLength = %v, want 1.5", got)
	}
	if r.TotalWords != 3 {
		t.Errorf("TotalWords = %d, want 3", r.TotalWords)
	}
}

func TestAggregate_Limits(t *testing.T) {
	var messages []parser.ParsedMessage
	emojiRunes := []rune("😀😁😂😃😄😅😆😇😈😉😊😋😌😍😎😏😐😑😒😓😔😕😖😗")
	for i, e := range emojiRunes {
		body := string(e) + " " + wordN(i)
		messages = append(messages, msg("Alice", body, at(1, 8, i)))
	}
	for i := 0; i < 60; i++ {
		messages = append(messages, msg("Bob", wordN(100+i), at(2, 9, i)))
	}

	r, err := Aggregate(messages)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(r.TopEmojis) != TopEmojiLimit {
		t.Errorf("len(TopEmojis) = %d, want %d", len(r.TopEmojis), TopEmojiLimit)
	}
	if len(r.EmojiStats) != EmojiStatsLimit {
		t.Errorf("len(EmojiStats) = %d, want %d", len(r.EmojiStats), EmojiStatsLimit)
	}
	if len(r.WordFrequency) != WordFrequencyLimit {
		t.Errorf("len(WordFrequency) = %d, want %d", len(r.WordFrequency), WordFrequencyLimit)
	}
	// All counts tie, so first-seen order decides.
	if r.TopEmojis[0] != "😀" || r.EmojiStats[19].Emoji != string(emojiRunes[19]) {
		t.Errorf("emoji order not first-seen: top=%q last=%q", r.TopEmojis[0], r.EmojiStats[19].Emoji)
	}
	if r.WordFrequency[0].Text != wordN(0) {
		t.Errorf("WordFrequency[0] = %q, want %q", r.WordFrequency[0].Text, wordN(0))
	}
}

func TestAggregate_Invariants(t *testing.T) {
	messages := []parser.ParsedMessage{
		msg("Alice", "morning everyone 😂", at(1, 7, 0)),
		msg("Bob", "<Media omitted>", at(1, 7, 5)),
		msg("Carol", "Carol left", at(1, 9, 0)),
		msg("Bob", "coffee coffee coffee ☕", at(2, 23, 59)),
		msg("Alice", "deadline tomorrow 😭😭", at(4, 0, 30)),
		msg("Dave", "", at(4, 1, 0)),
	}

	r, err := Aggregate(messages)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if r.TotalMessages != 4 {
		t.Fatalf("TotalMessages = %d, want 4", r.TotalMessages)
	}
	if r.MediaCount != 1 {
		t.Errorf("MediaCount = %d, want 1", r.MediaCount)
	}
	if (r.DateRange != DateRange{Start: "2023-01-01", End: "2023-01-04"}) {
		t.Errorf("DateRange = %+v", r.DateRange)
	}

	if len(r.HourlyActivity) != HoursPerDay {
		t.Fatalf("len(HourlyActivity) = %d, want 24", len(r.HourlyActivity))
	}
	hourly := 0
	for h, b := range r.HourlyActivity {
		if b.Hour != h {
			t.Errorf("HourlyActivity[%d].Hour = %d", h, b.Hour)
		}
		hourly += b.Messages
	}
	if hourly != r.TotalMessages {
		t.Errorf("hourly sum = %d, want %d", hourly, r.TotalMessages)
	}

	daily := 0
	var days []string
	for _, d := range r.DailyActivity {
		daily += d.Messages
		days = append(days, d.Date)
	}
	if daily != r.TotalMessages {
		t.Errorf("daily sum = %d, want %d", daily, r.TotalMessages)
	}
	if !sort.StringsAreSorted(days) {
		t.Errorf("DailyActivity not ascending: %v", days)
	}

	userMessages, userWords := 0, 0
	var userNames []string
	for _, u := range r.UserStats {
		userMessages += u.Messages
		userWords += u.Words
		userNames = append(userNames, u.Name)
	}
	if userMessages != r.TotalMessages {
		t.Errorf("user message sum = %d, want %d", userMessages, r.TotalMessages)
	}
	if userWords != r.TotalWords {
		t.Errorf("user word sum = %d, want %d", userWords, r.TotalWords)
	}
	sort.Strings(userNames)
	participants := append([]string(nil), r.Participants...)
	sort.Strings(participants)
	if diff := cmp.Diff(participants, userNames); diff != "" {
		t.Errorf("participants differ from user stats (-participants +users):\n%s", diff)
	}

	for i := 1; i < len(r.WordFrequency); i++ {
		if r.WordFrequency[i].Value > r.WordFrequency[i-1].Value {
			t.Errorf("WordFrequency not descending at %d: %+v", i, r.WordFrequency)
		}
	}
	if r.WordFrequency[0] != (WordCount{Text: "coffee", Value: 3}) {
		t.Errorf("WordFrequency[0] = %+v, want coffee x3", r.WordFrequency[0])
	}
	if r.TopEmojis[0] != "😭" {
		t.Errorf("TopEmojis[0] = %q, want 😭", r.TopEmojis[0])
	}
}

func TestCounter_Top(t *testing.T) {
	c := newCounter()
	for _, k := range []string{"b", "a", "c", "a", "b", "d"} {
		c.Add(k)
	}

	want := []entry{{"b", 2}, {"a", 2}, {"c", 1}}
	if diff := cmp.Diff(want, c.Top(3)); diff != "" {
		t.Errorf("Top(3) mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.Top(10)); got != 4 {
		t.Errorf("len(Top(10)) = %d, want 4", got)
	}
}

// wordN returns a distinct lowercase token that survives word filtering.
func wordN(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return "w" + string(letters[n/26%26]) + string(letters[n%26]) + "x"
}
