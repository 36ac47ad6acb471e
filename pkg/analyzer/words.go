package analyzer

import "github.com/ccollicutt/chatlens/pkg/parser"

// wordCollector builds the word frequency table.
type wordCollector struct {
	words *counter
}

func newWordCollector() *wordCollector {
	return &wordCollector{words: newCounter()}
}

func (c *wordCollector) Process(_ parser.ParsedMessage, f Features) {
	for _, w := range f.Words {
		c.words.Add(w)
	}
}

func (c *wordCollector) Finalize(r *Report) {
	top := c.words.Top(WordFrequencyLimit)
	r.WordFrequency = make([]WordCount, len(top))
	for i, e := range top {
		r.WordFrequency[i] = WordCount{Text: e.Key, Value: e.Count}
	}
}
