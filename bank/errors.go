package bank

import "errors"

var (
	// ErrInsufficientFunds is a withdraw or transfer larger than the source
	// balance at lock time.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSelfTransfer is a transfer whose source and destination are equal.
	ErrSelfTransfer   = errors.New("self transfer")
	ErrUnknownAccount = errors.New("unknown account")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrSameAccount    = errors.New("same account locked twice")
	ErrNoAccounts     = errors.New("account count must be positive")
)
