package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rustyeddy/ledgerbank/bank"
	"github.com/rustyeddy/ledgerbank/ledger"
)

// DefaultAccounts is the account count used when Options.Accounts is zero.
const DefaultAccounts = 10

// Options controls a replay run.
type Options struct {
	RunID    string
	Workers  int
	Accounts int

	// Log receives every outcome. Nil discards.
	Log    bank.ActivityLog
	Logger *slog.Logger
}

// Result is the final state of a run.
type Result struct {
	RunID      string
	LedgerPath string
	Workers    int
	Accounts   int
	Entries    int
	Balances   []bank.Balance
	Stats      bank.Stats
	Dispatched []int64
	Started    time.Time
	Finished   time.Time
}

// Run loads the ledger at path and replays it. A ledger that cannot be
// opened fails the run before any account is created or worker started.
func Run(ctx context.Context, path string, opts Options) (*Result, error) {
	entries, err := ledger.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	res, err := Entries(ctx, entries, opts)
	if res != nil {
		res.LedgerPath = path
	}
	return res, err
}

// Entries replays already parsed entries against a fresh set of accounts.
//
// If the activity log failed, the replay still runs to the end and the
// complete Result is returned together with the first log error.
func Entries(ctx context.Context, entries []ledger.Entry, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts := opts.Accounts
	if accounts == 0 {
		accounts = DefaultAccounts
	}
	store, err := bank.NewStore(accounts)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rec := bank.NewRecorder(opts.Log)
	pool := NewPool(opts.Workers, bank.NewEngine(store, rec), WithLogger(logger))
	q := ledger.NewQueue(entries)

	logger.Info("replay.start", "run", opts.RunID, "entries", len(entries), "workers", pool.Workers(), "accounts", accounts)
	started := time.Now()
	if err := pool.Run(q); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	finished := time.Now()

	res := &Result{
		RunID:      opts.RunID,
		Workers:    pool.Workers(),
		Accounts:   accounts,
		Entries:    len(entries),
		Balances:   store.Snapshot(),
		Stats:      rec.Stats(),
		Dispatched: pool.Dispatched(),
		Started:    started,
		Finished:   finished,
	}
	logger.Info("replay.done",
		"run", opts.RunID,
		"success", res.Stats.Success,
		"fail", res.Stats.Fail,
		"elapsed", finished.Sub(started).String(),
	)
	if err := rec.Err(); err != nil {
		logger.Error("replay.activity_log", "run", opts.RunID, "err", err)
		return res, err
	}
	return res, nil
}

// Total is the sum of the final balances.
func (r *Result) Total() int64 {
	var sum int64
	for _, b := range r.Balances {
		sum += b.Amount
	}
	return sum
}

// WriteReport prints one "ID# <id> | <balance>" line per account followed by
// the success and failure counts.
func (r *Result) WriteReport(w io.Writer) error {
	var b strings.Builder
	for _, bal := range r.Balances {
		fmt.Fprintf(&b, "ID# %d | %d\n", bal.ID, bal.Amount)
	}
	fmt.Fprintf(&b, "Success: %d Fails: %d\n", r.Stats.Success, r.Stats.Fail)
	_, err := io.WriteString(w, b.String())
	return err
}
