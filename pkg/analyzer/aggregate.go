package analyzer

import (
	"github.com/ccollicutt/chatlens/pkg/parser"
	"github.com/ccollicutt/chatlens/pkg/textstats"
)

// ExtractFeatures computes the text statistics of one message body.
func ExtractFeatures(body string) Features {
	return Features{
		Words:   textstats.ExtractWords(body),
		Emojis:  textstats.ExtractEmojis(body),
		IsMedia: textstats.IsMedia(body),
	}
}

// aggregation runs a fresh set of collectors over one message stream.
type aggregation struct {
	collectors []Collector
	usable     int
}

func newAggregation() *aggregation {
	return &aggregation{
		collectors: []Collector{
			&totalsCollector{},
			newActivityCollector(),
			newUserCollector(),
			newWordCollector(),
			newEmojiCollector(),
		},
	}
}

// Add folds one message in. Messages that are not usable are ignored.
func (a *aggregation) Add(msg parser.ParsedMessage) {
	if !msg.Usable() {
		return
	}
	a.usable++
	f := ExtractFeatures(msg.Message)
	for _, c := range a.collectors {
		c.Process(msg, f)
	}
}

// Report finalizes every collector. It fails with ErrNoMessagesParsed when no
// usable message was added, so a report is either complete or absent.
func (a *aggregation) Report() (*Report, error) {
	if a.usable == 0 {
		return nil, ErrNoMessagesParsed
	}
	r := &Report{}
	for _, c := range a.collectors {
		c.Finalize(r)
	}
	return r, nil
}

// Aggregate builds the report from a parsed message sequence. System notices
// and blank bodies are filtered out first.
func Aggregate(messages []parser.ParsedMessage) (*Report, error) {
	agg := newAggregation()
	for _, m := range messages {
		agg.Add(m)
	}
	return agg.Report()
}
