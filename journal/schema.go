// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	ledger_path TEXT NOT NULL,
	workers INTEGER NOT NULL,
	accounts INTEGER NOT NULL,
	entries INTEGER NOT NULL,
	success INTEGER NOT NULL,
	fail INTEGER NOT NULL,
	started DATETIME NOT NULL,
	finished DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id TEXT NOT NULL,
	ledger_id INTEGER NOT NULL,
	worker_id INTEGER NOT NULL,
	mode TEXT NOT NULL,
	account INTEGER NOT NULL,
	other INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	ok BOOLEAN NOT NULL,
	reason TEXT NOT NULL,
	PRIMARY KEY (run_id, ledger_id)
);

CREATE TABLE IF NOT EXISTS balances (
	run_id TEXT NOT NULL,
	account INTEGER NOT NULL,
	balance INTEGER NOT NULL,
	PRIMARY KEY (run_id, account)
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
`
