package parser

import "strings"

// Assembler folds classified lines into complete messages in a single pass.
//
// The only mutable state is the message in progress: a header line emits it
// and starts the next one, a plain line extends it, and a plain line with no
// message in progress is dropped. An Assembler is not safe for concurrent use.
type Assembler struct {
	classifier *Classifier
	emit       func(ParsedMessage)

	current *ParsedMessage
	stats   Stats
}

// NewAssembler creates an assembler that passes each finished message to emit,
// in input order.
func NewAssembler(emit func(ParsedMessage)) *Assembler {
	return &Assembler{
		classifier: NewClassifier(),
		emit:       emit,
		stats:      newStats(),
	}
}

// Feed processes one raw line and reports how it was classified.
func (a *Assembler) Feed(line Line) LineKind {
	a.stats.TotalLines++

	trimmed := strings.TrimSpace(line.Content)
	if trimmed == "" {
		return LineBlank
	}
	a.stats.NonEmptyLines++

	if h, ok := a.classifier.Classify(line.Content); ok {
		a.stats.MatchedLines++
		a.stats.PatternHits[h.Pattern]++
		a.flushCurrent()
		a.current = &ParsedMessage{
			Timestamp:       h.Timestamp,
			Sender:          h.Sender,
			Message:         h.Body,
			IsSystemMessage: IsSystemMessage(h.Body),
			LineNum:         line.LineNum,
		}
		return LineHeader
	}

	if a.current == nil {
		a.stats.DroppedLines++
		return LineDropped
	}
	a.stats.ContinuationLines++
	a.current.Message += "\n" + trimmed
	return LineContinuation
}

// Flush emits the message in progress, if any. Call it once at end of input.
func (a *Assembler) Flush() {
	a.flushCurrent()
}

// Stats returns the counters collected so far.
func (a *Assembler) Stats() Stats {
	s := a.stats
	s.PatternHits = append([]int(nil), a.stats.PatternHits...)
	return s
}

func (a *Assembler) flushCurrent() {
	if a.current == nil {
		return
	}
	msg := *a.current
	a.current = nil

	a.stats.Messages++
	if msg.IsSystemMessage {
		a.stats.SystemMessages++
	}
	if msg.Usable() {
		a.stats.UsableMessages++
	}
	if a.emit != nil {
		a.emit(msg)
	}
}
