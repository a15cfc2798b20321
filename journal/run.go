package journal

import (
	"time"

	"github.com/rustyeddy/ledgerbank/bank"
	"github.com/rustyeddy/ledgerbank/replay"
)

// Run mirrors the runs table plus the run's final balances.
type Run struct {
	RunID      string
	LedgerPath string
	Workers    int
	Accounts   int
	Entries    int
	Success    uint64
	Fail       uint64
	Started    time.Time
	Finished   time.Time

	Balances []bank.Balance
}

// FromResult builds the journal row of a finished replay.
func FromResult(r *replay.Result) Run {
	balances := make([]bank.Balance, len(r.Balances))
	copy(balances, r.Balances)
	return Run{
		RunID:      r.RunID,
		LedgerPath: r.LedgerPath,
		Workers:    r.Workers,
		Accounts:   r.Accounts,
		Entries:    r.Entries,
		Success:    r.Stats.Success,
		Fail:       r.Stats.Fail,
		Started:    r.Started,
		Finished:   r.Finished,
		Balances:   balances,
	}
}

// Elapsed is the time spent draining the ledger.
func (r Run) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Total is the sum of the final balances.
func (r Run) Total() int64 {
	var sum int64
	for _, b := range r.Balances {
		sum += b.Amount
	}
	return sum
}
