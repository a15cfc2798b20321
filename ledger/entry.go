package ledger

import "fmt"

// Mode is the kind of transaction a ledger entry requests.
type Mode int

const (
	Deposit Mode = iota
	Withdraw
	Transfer
)

func (m Mode) String() string {
	switch m {
	case Deposit:
		return "DEPOSIT"
	case Withdraw:
		return "WITHDRAW"
	case Transfer:
		return "TRANSFER"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String for the known modes.
func ParseMode(s string) (Mode, error) {
	for m := Deposit; m <= Transfer; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= Deposit && m <= Transfer
}

// ID is the sequence number of an entry, assigned at load time from 0.
type ID int

// Entry is one parsed transaction request.
//
// Other is only meaningful for transfers, where Account is the source and
// Other the destination.
type Entry struct {
	ID      ID
	Account int
	Other   int
	Amount  int64
	Mode    Mode
}
