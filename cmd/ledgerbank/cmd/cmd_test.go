package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args. Commands share package-level
// flag variables, so tests pass every flag they depend on and do not run in
// parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := executeTo(t, &out, args...)
	return out.String(), err
}

func executeTo(t *testing.T, w io.Writer, args ...string) error {
	t.Helper()

	rootCmd.SetOut(w)
	rootCmd.SetErr(w)
	rootCmd.SetArgs(args)
	return Execute()
}

// failWriter rejects writes of failure log lines and keeps everything else.
type failWriter struct {
	bytes.Buffer
}

func (f *failWriter) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("[ FAIL ]")) {
		return 0, errors.New("stdout closed")
	}
	return f.Buffer.Write(p)
}

func writeLedger(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "ledger.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 0 100 0\n0 1 50 2\nbad\n"), 0o644))
	return path
}

func TestRunCommand_Report(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := writeLedger(t, dir)

	out, err := execute(t, "run", "-w", "1", "-n", "2", "--journal", "none", "--metrics", "", "-q=false",
		"--log-file", filepath.Join(dir, "diag.log"), ledgerPath)
	require.NoError(t, err)

	assert.Equal(t, ""+
		"[ SUCCESS ] TID: 0, LID: 0, Acc: 0 DEPOSIT $100\n"+
		"[ SUCCESS ] TID: 0, LID: 1, Acc: 0 TRANSFER $50 TO Acc: 1\n"+
		"ID# 0 | 50\n"+
		"ID# 1 | 50\n"+
		"Success: 2 Fails: 0\n",
		out)
}

func TestRunCommand_MissingLedger(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.sqlite")

	_, err := execute(t, "run", "-w", "2", "-n", "2", "--journal", "sqlite", "--db", dbPath, "--metrics", "",
		"--log-file", filepath.Join(dir, "diag.log"), filepath.Join(dir, "missing.txt"))
	require.Error(t, err)

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "journal must not be created for an unreadable ledger")

	// The failed command still closes its log file.
	assert.Nil(t, logCleanup)
}

func TestRunCommand_ActivityLogErrorStillReports(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "ledger.txt")
	require.NoError(t, os.WriteFile(ledgerPath, []byte("0 0 100 0\n0 0 500 1\n"), 0o644))
	dbPath := filepath.Join(dir, "runs.sqlite")
	logPath := filepath.Join(dir, "diag.log")

	var out failWriter
	err := executeTo(t, &out, "run", "-w", "1", "-n", "1", "-q=false", "--journal", "sqlite", "--db", dbPath,
		"--metrics", "", "--log-file", logPath, ledgerPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdout closed")
	assert.Contains(t, out.String(), "ID# 0 | 100\nSuccess: 1 Fails: 1\n")

	runs, err := execute(t, "journal", "runs", "--db", dbPath, "--log-file", logPath)
	require.NoError(t, err)
	assert.Contains(t, runs, ":SUCCESS: 1")
	assert.Contains(t, runs, ":FAIL: 1")
}

func TestRunCommand_JournalAndMetrics(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := writeLedger(t, dir)
	dbPath := filepath.Join(dir, "runs.sqlite")
	promPath := filepath.Join(dir, "ledgerbank.prom")
	logPath := filepath.Join(dir, "diag.log")

	_, err := execute(t, "run", "-w", "2", "-n", "3", "-q", "--journal", "sqlite", "--db", dbPath,
		"--metrics", promPath, "--log-file", logPath, ledgerPath)
	require.NoError(t, err)

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `ledgerbank_outcomes_total{mode="DEPOSIT",result="success"} 1`)

	out, err := execute(t, "journal", "runs", "--db", dbPath, "--log-file", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ledger.txt")

	var runID string
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, ":RUN_ID: "); ok {
			runID = rest
			break
		}
	}
	require.NotEmpty(t, runID, "run id not listed in:\n%s", out)

	out, err = execute(t, "journal", "show", runID, "--db", dbPath, "--outcomes", "--log-file", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "LID: 1, Acc: 0 TRANSFER $50 TO Acc: 1")

	journalOutcomes = false
}

func TestJournalCommand_MissingDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typo.sqlite")

	_, err := execute(t, "journal", "runs", "--db", dbPath, "--log-file", filepath.Join(dir, "diag.log"))
	require.Error(t, err)

	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "journal runs must not create a database")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ledgerbank.yaml")
	logPath := filepath.Join(dir, "diag.log")

	out, err := execute(t, "config", "init", "-o", cfgPath, "--log-file", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", cfgPath, "--log-file", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Accounts: 10")
	assert.Contains(t, out, "Workers: 4")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--log-file", filepath.Join(t.TempDir(), "diag.log"))
	require.NoError(t, err)
	assert.Contains(t, out, "ledgerbank version "+version)
}
