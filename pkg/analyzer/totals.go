package analyzer

import (
	"time"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// totalsCollector counts messages, words and media and tracks the date range.
type totalsCollector struct {
	messages int
	words    int
	media    int
	first    time.Time
	last     time.Time
}

func (c *totalsCollector) Process(msg parser.ParsedMessage, f Features) {
	if c.messages == 0 || msg.Timestamp.Before(c.first) {
		c.first = msg.Timestamp
	}
	if c.messages == 0 || msg.Timestamp.After(c.last) {
		c.last = msg.Timestamp
	}
	c.messages++
	c.words += len(f.Words)
	if f.IsMedia {
		c.media++
	}
}

func (c *totalsCollector) Finalize(r *Report) {
	r.TotalMessages = c.messages
	r.TotalWords = c.words
	r.MediaCount = c.media
	r.DateRange = DateRange{
		Start: c.first.Format(dateLayout),
		End:   c.last.Format(dateLayout),
	}
}
