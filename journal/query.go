package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/ledgerbank/bank"
)

// GetRun returns a single run with its balances.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT run_id, ledger_path, workers, accounts, entries, success, fail, started, finished
		FROM runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}

	r.Balances, err = j.ListBalances(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns every run, oldest first, without balances.
func (j *SQLite) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, ledger_path, workers, accounts, entries, success, fail, started, finished
		FROM runs
		ORDER BY started ASC, run_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOutcomes returns the outcomes of a run in ledger order.
func (j *SQLite) ListOutcomes(ctx context.Context, runID string) ([]OutcomeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, ledger_id, worker_id, mode, account, other, amount, ok, reason
		FROM outcomes
		WHERE run_id = ?
		ORDER BY ledger_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var o OutcomeRecord
		if err := rows.Scan(
			&o.RunID,
			&o.Ledger,
			&o.Worker,
			&o.Mode,
			&o.Account,
			&o.Other,
			&o.Amount,
			&o.OK,
			&o.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBalances returns the final balances of a run in account order.
func (j *SQLite) ListBalances(ctx context.Context, runID string) ([]bank.Balance, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT account, balance
		FROM balances
		WHERE run_id = ?
		ORDER BY account ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bank.Balance
	for rows.Next() {
		var b bank.Balance
		if err := rows.Scan(&b.ID, &b.Amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r             Run
		success, fail int64
	)
	err := s.Scan(
		&r.RunID,
		&r.LedgerPath,
		&r.Workers,
		&r.Accounts,
		&r.Entries,
		&success,
		&fail,
		&r.Started,
		&r.Finished,
	)
	if err != nil {
		return Run{}, err
	}
	r.Success = uint64(success)
	r.Fail = uint64(fail)
	return r, nil
}
