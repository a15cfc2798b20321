package ledger

// Queue hands out ledger entries in file order, each to exactly one caller.
//
// All entries are enqueued and the queue is closed by NewQueue, so once Take
// reports the queue drained it stays drained.
type Queue struct {
	ch chan Entry
}

// NewQueue returns a closed queue holding entries.
func NewQueue(entries []Entry) *Queue {
	ch := make(chan Entry, len(entries))
	for _, e := range entries {
		ch <- e
	}
	close(ch)
	return &Queue{ch: ch}
}

// Take removes and returns the front entry. ok is false once the queue is
// empty.
func (q *Queue) Take() (e Entry, ok bool) {
	e, ok = <-q.ch
	return e, ok
}

// Len returns the number of entries not yet taken.
func (q *Queue) Len() int {
	return len(q.ch)
}
