package bank

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/ledgerbank/ledger"
)

// WorkerID identifies the worker that applied an entry. It is only used to
// attribute log lines.
type WorkerID int

// Outcome is the recorded result of one engine operation. Err is nil for a
// success.
type Outcome struct {
	Worker  WorkerID
	Ledger  ledger.ID
	Mode    ledger.Mode
	Account int
	Other   int
	Amount  int64
	Err     error
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Level is the bracketed result tag used in log lines.
func (o Outcome) Level() string {
	if o.OK() {
		return "[ SUCCESS ]"
	}
	return "[ FAIL ]"
}

// String renders the activity log line, e.g.
//
//	[ SUCCESS ] TID: 1, LID: 7, Acc: 3 TRANSFER $50 TO Acc: 4
func (o Outcome) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s TID: %d, LID: %d, Acc: %d %s $%d",
		o.Level(), o.Worker, o.Ledger, o.Account, o.Mode, o.Amount)
	if o.Mode == ledger.Transfer {
		fmt.Fprintf(&b, " TO Acc: %d", o.Other)
	}
	return b.String()
}
