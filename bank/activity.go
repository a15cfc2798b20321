package bank

import (
	"errors"
	"fmt"
	"io"
)

// ActivityLog receives every recorded outcome, in recording order.
//
// The Recorder calls Append with its lock held, so implementations see one
// call at a time and must not call back into the engine.
type ActivityLog interface {
	Append(Outcome) error
}

// Discard drops every outcome.
var Discard ActivityLog = discard{}

type discard struct{}

func (discard) Append(Outcome) error { return nil }

// WriterLog writes one line per outcome to w.
type WriterLog struct {
	w io.Writer
}

// NewWriterLog returns a log writing outcome lines to w.
func NewWriterLog(w io.Writer) *WriterLog {
	return &WriterLog{w: w}
}

// Append writes the log line of o.
func (l *WriterLog) Append(o Outcome) error {
	_, err := fmt.Fprintln(l.w, o.String())
	return err
}

// MemoryLog keeps every outcome in memory. Read it after the run, once no
// Recorder is appending to it any more.
type MemoryLog struct {
	outcomes []Outcome
}

func (l *MemoryLog) Append(o Outcome) error {
	l.outcomes = append(l.outcomes, o)
	return nil
}

// Outcomes returns a copy of the recorded outcomes.
func (l *MemoryLog) Outcomes() []Outcome {
	out := make([]Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

// Lines returns the log line of every recorded outcome.
func (l *MemoryLog) Lines() []string {
	out := make([]string, len(l.outcomes))
	for i, o := range l.outcomes {
		out[i] = o.String()
	}
	return out
}

type multiLog []ActivityLog

// MultiLog fans every outcome out to logs, in order. Nil logs are skipped.
func MultiLog(logs ...ActivityLog) ActivityLog {
	var m multiLog
	for _, l := range logs {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

func (m multiLog) Append(o Outcome) error {
	var errs []error
	for _, l := range m {
		if err := l.Append(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
