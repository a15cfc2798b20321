package replay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/ledgerbank/bank"
	"github.com/rustyeddy/ledgerbank/ledger"
)

var ErrUnknownMode = errors.New("unknown ledger mode")

// Engine is what a worker dispatches entries to. *bank.Engine implements it.
// Returned errors are recorded per-entry failures and do not stop a worker.
type Engine interface {
	Deposit(w bank.WorkerID, lid ledger.ID, account int, amount int64) error
	Withdraw(w bank.WorkerID, lid ledger.ID, account int, amount int64) error
	Transfer(w bank.WorkerID, lid ledger.ID, src, dst int, amount int64) error
}

// Pool runs a fixed number of interchangeable workers over a ledger queue.
type Pool struct {
	workers    int
	engine     Engine
	log        *slog.Logger
	dispatched []atomic.Int64
}

type Option func(*Pool)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPool creates a pool of workers (at least one) dispatching to engine.
func NewPool(workers int, engine Engine, opts ...Option) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		workers:    workers,
		engine:     engine,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		dispatched: make([]atomic.Int64, workers),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

// Run starts every worker and blocks until all of them have seen q drained.
// Each entry is dispatched by exactly one worker.
func (p *Pool) Run(q *ledger.Queue) error {
	var g errgroup.Group
	for i := 0; i < p.workers; i++ {
		w := bank.WorkerID(i)
		g.Go(func() error { return p.work(w, q) })
	}
	return g.Wait()
}

func (p *Pool) work(w bank.WorkerID, q *ledger.Queue) error {
	for {
		e, ok := q.Take()
		if !ok {
			p.log.Debug("worker.done", "worker", int(w), "dispatched", p.dispatched[w].Load())
			return nil
		}
		if err := p.dispatch(w, e); err != nil {
			return err
		}
		p.dispatched[w].Add(1)
	}
}

func (p *Pool) dispatch(w bank.WorkerID, e ledger.Entry) error {
	var err error
	switch e.Mode {
	case ledger.Deposit:
		err = p.engine.Deposit(w, e.ID, e.Account, e.Amount)
	case ledger.Withdraw:
		err = p.engine.Withdraw(w, e.ID, e.Account, e.Amount)
	case ledger.Transfer:
		err = p.engine.Transfer(w, e.ID, e.Account, e.Other, e.Amount)
	default:
		return fmt.Errorf("worker %d: ledger %d: %w: %v", w, e.ID, ErrUnknownMode, e.Mode)
	}
	if err != nil {
		p.log.Debug("entry.failed", "worker", int(w), "ledger", int(e.ID), "mode", e.Mode.String(), "err", err)
	}
	return nil
}

// Dispatched returns how many entries each worker has dispatched since the
// pool was created, indexed by worker id.
func (p *Pool) Dispatched() []int64 {
	out := make([]int64, len(p.dispatched))
	for i := range p.dispatched {
		out[i] = p.dispatched[i].Load()
	}
	return out
}
