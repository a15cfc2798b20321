package journal

import (
	"context"
	"errors"

	"github.com/rustyeddy/ledgerbank/bank"
	"github.com/rustyeddy/ledgerbank/ledger"
)

// OutcomeRecord is one journaled engine outcome.
type OutcomeRecord struct {
	RunID   string
	Ledger  int
	Worker  int
	Mode    string
	Account int
	Other   int
	Amount  int64
	OK      bool
	Reason  string
}

// NewOutcomeRecord flattens o for storage under runID.
func NewOutcomeRecord(runID string, o bank.Outcome) OutcomeRecord {
	rec := OutcomeRecord{
		RunID:   runID,
		Ledger:  int(o.Ledger),
		Worker:  int(o.Worker),
		Mode:    o.Mode.String(),
		Account: o.Account,
		Other:   o.Other,
		Amount:  o.Amount,
		OK:      o.OK(),
	}
	if o.Err != nil {
		rec.Reason = o.Err.Error()
	}
	return rec
}

// Outcome rebuilds the engine outcome, so a journaled run can be printed
// with the same log lines it produced.
func (r OutcomeRecord) Outcome() (bank.Outcome, error) {
	mode, err := ledger.ParseMode(r.Mode)
	if err != nil {
		return bank.Outcome{}, err
	}
	o := bank.Outcome{
		Worker:  bank.WorkerID(r.Worker),
		Ledger:  ledger.ID(r.Ledger),
		Mode:    mode,
		Account: r.Account,
		Other:   r.Other,
		Amount:  r.Amount,
	}
	if !r.OK {
		o.Err = errors.New(r.Reason)
	}
	return o, nil
}

// Journal is write-only audit output of replay runs.
type Journal interface {
	// Activity returns an activity log that journals outcomes under runID.
	Activity(runID string) bank.ActivityLog
	RecordRun(ctx context.Context, run Run) error
	Close() error
}

type activity struct {
	runID  string
	record func(OutcomeRecord) error
}

func (a activity) Append(o bank.Outcome) error {
	return a.record(NewOutcomeRecord(a.runID, o))
}
