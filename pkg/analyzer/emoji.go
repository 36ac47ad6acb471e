package analyzer

import (
	"github.com/ccollicutt/chatlens/pkg/parser"
	"github.com/ccollicutt/chatlens/pkg/textstats"
)

// emojiCollector builds the top emoji list and the named emoji table.
type emojiCollector struct {
	emojis *counter
}

func newEmojiCollector() *emojiCollector {
	return &emojiCollector{emojis: newCounter()}
}

func (c *emojiCollector) Process(_ parser.ParsedMessage, f Features) {
	for _, e := range f.Emojis {
		c.emojis.Add(e)
	}
}

func (c *emojiCollector) Finalize(r *Report) {
	top := c.emojis.Top(EmojiStatsLimit)

	r.TopEmojis = make([]string, 0, TopEmojiLimit)
	r.EmojiStats = make([]EmojiStat, len(top))
	for i, e := range top {
		if i < TopEmojiLimit {
			r.TopEmojis = append(r.TopEmojis, e.Key)
		}
		r.EmojiStats[i] = EmojiStat{
			Emoji:    e.Key,
			Name:     textstats.EmojiName(e.Key),
			Count:    e.Count,
			Category: textstats.EmojiCategoryOf(e.Key),
		}
	}
}
