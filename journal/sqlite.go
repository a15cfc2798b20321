package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/ledgerbank/bank"
)

// SQLite journals outcomes, runs and balances to a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens an existing journal read-only, for queries. Unlike
// NewSQLite it never creates a database file or schema.
func OpenSQLite(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	return &SQLite{db: db}, nil
}

// NewSQLite opens or creates a journal at path and ensures its schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) Activity(runID string) bank.ActivityLog {
	return activity{runID: runID, record: j.RecordOutcome}
}

func (j *SQLite) RecordOutcome(o OutcomeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO outcomes
		(run_id, ledger_id, worker_id, mode, account, other, amount, ok, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.Ledger, o.Worker, o.Mode, o.Account, o.Other, o.Amount, o.OK, o.Reason,
	)
	return err
}

// RecordRun stores the run summary and its balances in one transaction.
func (j *SQLite) RecordRun(ctx context.Context, r Run) (err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, ledger_path, workers, accounts, entries, success, fail, started, finished)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.LedgerPath, r.Workers, r.Accounts, r.Entries,
		int64(r.Success), int64(r.Fail), r.Started.UTC(), r.Finished.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}

	for _, b := range r.Balances {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO balances (run_id, account, balance)
			VALUES (?, ?, ?)`,
			r.RunID, b.ID, b.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert balance %s/%d: %w", r.RunID, b.ID, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

var _ Journal = (*SQLite)(nil)
