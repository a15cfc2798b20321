package bank

// Guard is a held lock on one account. Balance reads and writes are only
// possible through a Guard, and only until Unlock.
type Guard struct {
	acct     *Account
	released bool
}

func (g *Guard) held() *Account {
	if g.released {
		panic("bank: use of released account guard")
	}
	return g.acct
}

// ID returns the account id.
func (g *Guard) ID() int { return g.acct.id }

// Balance returns the current balance.
func (g *Guard) Balance() int64 { return g.held().balance }

func (g *Guard) credit(amount int64) {
	g.held().balance += amount
}

func (g *Guard) debit(amount int64) error {
	a := g.held()
	if amount > a.balance {
		return ErrInsufficientFunds
	}
	a.balance -= amount
	return nil
}

// settle reports o to r. Recording happens while the account lock is still
// held, which makes the recorder lock the innermost one.
func (g *Guard) settle(r *Recorder, o Outcome) {
	g.held()
	r.record(o)
}

// Unlock releases the account lock. A guard cannot be used afterwards.
func (g *Guard) Unlock() {
	a := g.held()
	g.released = true
	a.mu.Unlock()
}

// PairGuard holds the locks of two distinct accounts, acquired in ascending
// id order.
type PairGuard struct {
	first  Guard
	second Guard
}

// First returns the guard of the lower account id.
func (p *PairGuard) First() *Guard { return &p.first }

// Second returns the guard of the higher account id.
func (p *PairGuard) Second() *Guard { return &p.second }

// Account returns the guard for id, or nil if id is not one of the pair.
func (p *PairGuard) Account(id int) *Guard {
	switch id {
	case p.first.acct.id:
		return &p.first
	case p.second.acct.id:
		return &p.second
	}
	return nil
}

// move transfers amount from src to dst, both of which must belong to the
// pair. Nothing changes when src cannot cover amount.
func (p *PairGuard) move(src, dst int, amount int64) error {
	from, to := p.Account(src), p.Account(dst)
	if from == nil || to == nil || from == to {
		return ErrUnknownAccount
	}
	if err := from.debit(amount); err != nil {
		return err
	}
	to.credit(amount)
	return nil
}

func (p *PairGuard) settle(r *Recorder, o Outcome) {
	p.first.held()
	p.second.held()
	r.record(o)
}

// Unlock releases both locks in reverse acquisition order.
func (p *PairGuard) Unlock() {
	p.second.Unlock()
	p.first.Unlock()
}
