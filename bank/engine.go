package bank

import "github.com/rustyeddy/ledgerbank/ledger"

// Engine applies deposits, withdrawals and transfers to a Store and records
// exactly one outcome per call.
//
// Operations return nil on success. A non-nil error is a recorded failure
// (ErrInsufficientFunds, ErrSelfTransfer, ErrUnknownAccount,
// ErrInvalidAmount), never a reason to stop processing.
type Engine struct {
	store *Store
	stats *Recorder
}

// NewEngine returns an engine applying operations to store and recording
// them in stats.
func NewEngine(store *Store, stats *Recorder) *Engine {
	return &Engine{store: store, stats: stats}
}

// Store returns the accounts the engine mutates.
func (e *Engine) Store() *Store { return e.store }

// Recorder returns the recorder every outcome is reported to.
func (e *Engine) Recorder() *Recorder { return e.stats }

// Deposit adds amount to account.
func (e *Engine) Deposit(w WorkerID, lid ledger.ID, account int, amount int64) error {
	o := Outcome{Worker: w, Ledger: lid, Mode: ledger.Deposit, Account: account, Amount: amount}
	if amount < 0 {
		return e.reject(o, ErrInvalidAmount)
	}

	g, err := e.store.Lock(account)
	if err != nil {
		return e.reject(o, err)
	}
	defer g.Unlock()

	g.credit(amount)
	g.settle(e.stats, o)
	return nil
}

// Withdraw removes amount from account if the balance covers it.
func (e *Engine) Withdraw(w WorkerID, lid ledger.ID, account int, amount int64) error {
	o := Outcome{Worker: w, Ledger: lid, Mode: ledger.Withdraw, Account: account, Amount: amount}
	if amount < 0 {
		return e.reject(o, ErrInvalidAmount)
	}

	g, err := e.store.Lock(account)
	if err != nil {
		return e.reject(o, err)
	}
	defer g.Unlock()

	o.Err = g.debit(amount)
	g.settle(e.stats, o)
	return o.Err
}

// Transfer moves amount from src to dst if src covers it. Both accounts are
// locked in ascending id order for the check and the move, so funds are
// never partially moved. A transfer to the same account fails without
// taking any lock.
func (e *Engine) Transfer(w WorkerID, lid ledger.ID, src, dst int, amount int64) error {
	o := Outcome{Worker: w, Ledger: lid, Mode: ledger.Transfer, Account: src, Other: dst, Amount: amount}
	if src == dst {
		return e.reject(o, ErrSelfTransfer)
	}
	if amount < 0 {
		return e.reject(o, ErrInvalidAmount)
	}

	p, err := e.store.LockPair(src, dst)
	if err != nil {
		return e.reject(o, err)
	}
	defer p.Unlock()

	o.Err = p.move(src, dst, amount)
	p.settle(e.stats, o)
	return o.Err
}

// reject records a failure that was decided before any account lock was
// taken.
func (e *Engine) reject(o Outcome, err error) error {
	o.Err = err
	e.stats.record(o)
	return err
}
