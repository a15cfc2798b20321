package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRunOrg renders a Run as an Org-mode block. Structured facts go in a
// PROPERTIES drawer; balances become an Org table.
func FormatRunOrg(r Run) string {
	heading := fmt.Sprintf("** Run: %s (%s)", shortID(r.RunID), r.LedgerPath)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf(":LEDGER: %s\n", r.LedgerPath))
	b.WriteString(fmt.Sprintf(":WORKERS: %d\n", r.Workers))
	b.WriteString(fmt.Sprintf(":ACCOUNTS: %d\n", r.Accounts))
	b.WriteString(fmt.Sprintf(":ENTRIES: %d\n", r.Entries))
	b.WriteString(fmt.Sprintf(":SUCCESS: %d\n", r.Success))
	b.WriteString(fmt.Sprintf(":FAIL: %d\n", r.Fail))
	b.WriteString(fmt.Sprintf(":STARTED: %s\n", r.Started.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":ELAPSED: %s\n", r.Elapsed()))
	b.WriteString(":END:\n")

	if len(r.Balances) > 0 {
		b.WriteString("\n")
		b.WriteString("| account | balance |\n")
		b.WriteString("|---------+---------|\n")
		for _, bal := range r.Balances {
			b.WriteString(fmt.Sprintf("| %d | %d |\n", bal.ID, bal.Amount))
		}
		b.WriteString(fmt.Sprintf("| total | %d |\n", r.Total()))
	}

	return b.String()
}

// FormatRunsOrg renders multiple runs separated by blank lines.
func FormatRunsOrg(runs []Run) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRunOrg(r))
	}
	return b.String()
}

// shortID keeps the tail of a run id. ULIDs start with their timestamp, so
// the head repeats across runs started close together.
func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
