package journal

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rustyeddy/ledgerbank/bank"
)

var (
	outcomesHeader = []string{"run_id", "ledger_id", "worker_id", "mode", "account", "other", "amount", "result", "reason"}
	balancesHeader = []string{"run_id", "account", "balance"}
)

// CSV journals outcomes and final balances to two CSV files.
type CSV struct {
	outcomes *csv.Writer
	balances *csv.Writer
	of, bf   *os.File
}

// NewCSV creates both files, truncating existing ones, and writes their
// headers.
func NewCSV(outcomesPath, balancesPath string) (*CSV, error) {
	of, err := os.Create(outcomesPath)
	if err != nil {
		return nil, err
	}
	bf, err := os.Create(balancesPath)
	if err != nil {
		_ = of.Close()
		return nil, err
	}

	ow := csv.NewWriter(of)
	bw := csv.NewWriter(bf)

	j := &CSV{ow, bw, of, bf}
	if err := j.writeRow(ow, outcomesHeader); err != nil {
		_ = j.closeFiles()
		return nil, err
	}
	if err := j.writeRow(bw, balancesHeader); err != nil {
		_ = j.closeFiles()
		return nil, err
	}
	return j, nil
}

func (j *CSV) Activity(runID string) bank.ActivityLog {
	return activity{runID: runID, record: j.RecordOutcome}
}

func (j *CSV) RecordOutcome(o OutcomeRecord) error {
	result := "SUCCESS"
	if !o.OK {
		result = "FAIL"
	}
	return j.writeRow(j.outcomes, []string{
		o.RunID,
		strconv.Itoa(o.Ledger),
		strconv.Itoa(o.Worker),
		o.Mode,
		strconv.Itoa(o.Account),
		strconv.Itoa(o.Other),
		strconv.FormatInt(o.Amount, 10),
		result,
		o.Reason,
	})
}

// RecordRun writes the run's final balances. The CSV journal has no run
// summary file; counts can be derived from outcomes.csv.
func (j *CSV) RecordRun(_ context.Context, r Run) error {
	for _, b := range r.Balances {
		if err := j.balances.Write([]string{
			r.RunID,
			strconv.Itoa(b.ID),
			strconv.FormatInt(b.Amount, 10),
		}); err != nil {
			return err
		}
	}
	j.balances.Flush()
	return j.balances.Error()
}

func (j *CSV) writeRow(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSV) Close() error {
	j.outcomes.Flush()
	if err := j.outcomes.Error(); err != nil {
		return err
	}
	j.balances.Flush()
	if err := j.balances.Error(); err != nil {
		return err
	}
	return j.closeFiles()
}

func (j *CSV) closeFiles() error {
	if err := j.of.Close(); err != nil {
		_ = j.bf.Close()
		return err
	}
	return j.bf.Close()
}

var _ Journal = (*CSV)(nil)
