package kingdeesync

// lineSequencer assigns per-document line numbers to a flattened
// multi-line entity: the first row seen for a document key gets line 1,
// the next line 2, in strict arrival order.
//
// State lives for one entity-kind pass only and is never persisted; a
// later sync that receives rows in a different order renumbers lines.
// That is the contract, not an accident.
type lineSequencer struct {
	next map[string]int
}

func newLineSequencer() *lineSequencer {
	return &lineSequencer{next: make(map[string]int)}
}

// Next returns the line number for the given document key and advances
// the counter.
func (l *lineSequencer) Next(docKey string) int {
	l.next[docKey]++
	return l.next[docKey]
}

// Documents is the count of distinct document keys seen this pass.
func (l *lineSequencer) Documents() int {
	return len(l.next)
}

// MultiLine returns the documents that produced more than one line,
// keyed to their line counts.
func (l *lineSequencer) MultiLine() map[string]int {
	multi := make(map[string]int)
	for doc, lines := range l.next {
		if lines > 1 {
			multi[doc] = lines
		}
	}
	return multi
}
