package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ledgerbank/bank"
	"github.com/rustyeddy/ledgerbank/config"
	"github.com/rustyeddy/ledgerbank/internal/id"
	"github.com/rustyeddy/ledgerbank/internal/logger"
	"github.com/rustyeddy/ledgerbank/journal"
	"github.com/rustyeddy/ledgerbank/ledger"
	"github.com/rustyeddy/ledgerbank/metrics"
	"github.com/rustyeddy/ledgerbank/replay"
)

var runCmd = &cobra.Command{
	Use:   "run [ledger-file]",
	Short: "Replay a ledger file",
	Long: `Replay a ledger file against a fresh set of accounts.

Each line of the ledger holds four integers: account other amount mode,
where mode is 0 (deposit), 1 (withdraw) or 2 (transfer to other).
Malformed lines are skipped.

Every outcome is printed as it is recorded, followed by the final balance
of each account and the success and failure counts.

Examples:
  ledgerbank run -w 4 ledger.txt
  ledgerbank run -w 8 -n 100 --journal sqlite --db runs.sqlite ledger.txt.xz
  ledgerbank run -f ledgerbank.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var (
	runConfigPath  string
	runWorkers     int
	runAccounts    int
	runJournalType string
	runDBPath      string
	runOutcomes    string
	runBalances    string
	runMetricsFile string
	runQuiet       bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 4, "number of concurrent workers")
	runCmd.Flags().IntVarP(&runAccounts, "accounts", "n", 10, "number of accounts")
	runCmd.Flags().StringVar(&runJournalType, "journal", "none", "journal type: none, csv or sqlite")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "./ledgerbank.sqlite", "SQLite journal path")
	runCmd.Flags().StringVar(&runOutcomes, "outcomes", "./outcomes.csv", "CSV journal outcomes file")
	runCmd.Flags().StringVar(&runBalances, "balances", "./balances.csv", "CSV journal balances file")
	runCmd.Flags().StringVar(&runMetricsFile, "metrics", "", "write Prometheus metrics to this file")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not print the activity log")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	applyRunFlags(cmd, cfg, args)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.Ledger.Path == "" {
		return errors.New("a ledger file is required (argument or ledger.path in config)")
	}

	if err := applyLogConfig(cmd, cfg.Log); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	log := logger.L()

	// The ledger is loaded before anything else is created, so an unreadable
	// file leaves no journal files or accounts behind.
	entries, err := ledger.Load(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	log.Debug("ledger.loaded", "path", cfg.Ledger.Path, "entries", len(entries))

	out := cmd.OutOrStdout()
	runID := id.NewRun()

	var logs []bank.ActivityLog
	if !runQuiet {
		logs = append(logs, bank.NewWriterLog(out))
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		logs = append(logs, j.Activity(runID))
	}

	var mc *metrics.Collector
	if cfg.Metrics.File != "" {
		mc = metrics.New("ledgerbank")
		logs = append(logs, mc)
	}

	res, replayErr := replay.Entries(cmd.Context(), entries, replay.Options{
		RunID:    runID,
		Workers:  cfg.Workers,
		Accounts: cfg.Bank.Accounts,
		Log:      bank.MultiLog(logs...),
		Logger:   log,
	})
	if res == nil {
		return replayErr
	}
	res.LedgerPath = cfg.Ledger.Path

	// An activity log failure still leaves final balances and counts, so the
	// report, run summary and metrics are written before it is returned.
	errs := []error{replayErr}
	if err := res.WriteReport(out); err != nil {
		errs = append(errs, fmt.Errorf("write report: %w", err))
	}

	if j != nil {
		if err := j.RecordRun(cmd.Context(), journal.FromResult(res)); err != nil {
			errs = append(errs, fmt.Errorf("record run: %w", err))
		} else {
			log.Info("journal.recorded", "run", runID, "type", cfg.Journal.Type)
		}
	}

	if mc != nil {
		mc.ObserveBalances(res.Balances)
		mc.Workers.Set(float64(res.Workers))
		mc.Duration.Set(res.Finished.Sub(res.Started).Seconds())
		if err := mc.WriteFile(cfg.Metrics.File); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}

	log.Debug("run.finished", "run", runID, "elapsed", res.Finished.Sub(res.Started).Round(time.Microsecond).String())
	return errors.Join(errs...)
}

// applyRunFlags lets explicit flags and the positional ledger path override
// the config file.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Ledger.Path = args[0]
	}
	if flags.Changed("workers") {
		cfg.Workers = runWorkers
	}
	if flags.Changed("accounts") {
		cfg.Bank.Accounts = runAccounts
	}
	if flags.Changed("journal") {
		cfg.Journal.Type = runJournalType
	}
	if flags.Changed("db") || (cfg.Journal.Type == "sqlite" && cfg.Journal.DBPath == "") {
		cfg.Journal.DBPath = runDBPath
	}
	if flags.Changed("outcomes") || (cfg.Journal.Type == "csv" && cfg.Journal.OutcomesFile == "") {
		cfg.Journal.OutcomesFile = runOutcomes
	}
	if flags.Changed("balances") || (cfg.Journal.Type == "csv" && cfg.Journal.BalancesFile == "") {
		cfg.Journal.BalancesFile = runBalances
	}
	if flags.Changed("metrics") {
		cfg.Metrics.File = runMetricsFile
	}
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.OutcomesFile, jc.BalancesFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, nil
	}
}
