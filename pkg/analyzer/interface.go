package analyzer

import "github.com/ccollicutt/chatlens/pkg/parser"

// Collector folds usable messages into one part of the report.
// Each aggregation (totals, activity, users, words, emoji) implements this
// interface. Collectors are created per call and never shared.
type Collector interface {
	// Process handles a single usable message.
	Process(msg parser.ParsedMessage, f Features)

	// Finalize writes the collector's fields into the report.
	// Called once after every message has been processed.
	Finalize(r *Report)
}

// Features are the text statistics of one message, extracted once and shared
// by every collector.
type Features struct {
	Words   []string
	Emojis  []string
	IsMedia bool
}
