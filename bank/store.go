package bank

import (
	"fmt"
	"sync"
)

// Account is a single balance with its own lock. Accounts only exist inside
// a Store and must not be copied.
type Account struct {
	mu      sync.Mutex
	id      int
	balance int64
}

// Balance is a snapshot row of one account.
type Balance struct {
	ID     int
	Amount int64
}

// Store owns a fixed set of accounts with ids 0..N-1. Accounts are reached
// only through guards returned by Lock and LockPair.
type Store struct {
	accounts []Account
}

// NewStore creates n accounts with a zero balance.
func NewStore(n int) (*Store, error) {
	if n <= 0 {
		return nil, fmt.Errorf("new store: %w (got %d)", ErrNoAccounts, n)
	}
	s := &Store{accounts: make([]Account, n)}
	for i := range s.accounts {
		s.accounts[i].id = i
	}
	return s, nil
}

// Len returns the number of accounts.
func (s *Store) Len() int { return len(s.accounts) }

func (s *Store) account(id int) (*Account, error) {
	if id < 0 || id >= len(s.accounts) {
		return nil, fmt.Errorf("account %d: %w", id, ErrUnknownAccount)
	}
	return &s.accounts[id], nil
}

// Lock acquires the lock of account id and returns a guard over it.
func (s *Store) Lock(id int) (*Guard, error) {
	a, err := s.account(id)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	return &Guard{acct: a}, nil
}

// LockPair acquires the locks of two distinct accounts, lower id first, no
// matter which of a and b is lower. Every two-account operation goes through
// here so that all callers agree on one lock order.
func (s *Store) LockPair(a, b int) (*PairGuard, error) {
	if a == b {
		return nil, fmt.Errorf("lock pair %d: %w", a, ErrSameAccount)
	}
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	first, err := s.account(lo)
	if err != nil {
		return nil, err
	}
	second, err := s.account(hi)
	if err != nil {
		return nil, err
	}

	first.mu.Lock()
	second.mu.Lock()
	return &PairGuard{
		first:  Guard{acct: first},
		second: Guard{acct: second},
	}, nil
}

// Balance reads the balance of account id under its lock.
func (s *Store) Balance(id int) (int64, error) {
	g, err := s.Lock(id)
	if err != nil {
		return 0, err
	}
	defer g.Unlock()
	return g.Balance(), nil
}

// Snapshot reads every balance in ascending id order. Each account is locked
// and released in turn; two account locks are never held together.
func (s *Store) Snapshot() []Balance {
	out := make([]Balance, len(s.accounts))
	for i := range s.accounts {
		a := &s.accounts[i]
		a.mu.Lock()
		out[i] = Balance{ID: a.id, Amount: a.balance}
		a.mu.Unlock()
	}
	return out
}

// Total sums a snapshot of all balances.
func (s *Store) Total() int64 {
	var sum int64
	for _, b := range s.Snapshot() {
		sum += b.Amount
	}
	return sum
}
