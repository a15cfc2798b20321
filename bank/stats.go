package bank

import (
	"fmt"
	"sync"
)

// Stats counts recorded outcomes.
type Stats struct {
	Success uint64
	Fail    uint64
}

// Total is the number of recorded outcomes.
func (s Stats) Total() uint64 { return s.Success + s.Fail }

// Recorder counts outcomes and appends them to an activity log under a
// single lock.
//
// Lock order: account locks, then the recorder lock. Outcomes are recorded
// through a held Guard or PairGuard, or through Engine.reject which holds no
// account lock; the recorder never calls out to anything that takes an
// account lock.
type Recorder struct {
	mu    sync.Mutex
	stats Stats
	log   ActivityLog
	err   error
}

// NewRecorder returns a recorder writing to log. A nil log discards.
func NewRecorder(log ActivityLog) *Recorder {
	if log == nil {
		log = Discard
	}
	return &Recorder{log: log}
}

func (r *Recorder) record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.log.Append(o); err != nil && r.err == nil {
		r.err = fmt.Errorf("activity log: ledger %d: %w", o.Ledger, err)
	}
	if o.OK() {
		r.stats.Success++
	} else {
		r.stats.Fail++
	}
}

// Stats returns a copy of the counters.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Err returns the first error the activity log reported, if any. Counting
// continues after a log error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
