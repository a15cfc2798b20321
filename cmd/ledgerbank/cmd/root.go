package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/ledgerbank/config"
	"github.com/rustyeddy/ledgerbank/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ledgerbank",
	Short: "Replay a ledger of bank transactions with concurrent workers",
	Long: `Ledgerbank replays a file of deposits, withdrawals and transfers against a
fixed set of accounts using a pool of concurrent workers.

It provides tools for:
  - Replaying ledger files (plain, .xz or .lzma) with N workers
  - Journaling every outcome and the final balances to CSV or SQLite
  - Exporting run metrics in the Prometheus textfile format
  - Querying past runs from the SQLite journal`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: teardownLogging,
}

var (
	debugLogs  bool
	logFile    string
	logCleanup func() error
)

// Execute adds all child commands to the root command and sets flags appropriately.
// Diagnostics are torn down here as well, since cobra skips PersistentPostRunE
// when a command fails.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := teardownLogging(rootCmd, nil); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug diagnostics on stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON diagnostics to this file instead of stderr")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cleanup, err := logger.Setup(logger.Config{File: logFile, Debug: debugLogs})
	if err != nil {
		return err
	}
	logCleanup = cleanup
	return nil
}

func teardownLogging(cmd *cobra.Command, args []string) error {
	if logCleanup == nil {
		return nil
	}
	err := logCleanup()
	logCleanup = nil
	return err
}

// applyLogConfig switches diagnostics to the config file's log settings
// unless --debug or --log-file were given.
func applyLogConfig(cmd *cobra.Command, lc config.LogConfig) error {
	flags := cmd.Flags()
	if flags.Changed("debug") || flags.Changed("log-file") {
		return nil
	}
	if !lc.Debug && lc.File == "" {
		return nil
	}
	if err := teardownLogging(cmd, nil); err != nil {
		return err
	}
	cleanup, err := logger.Setup(logger.Config{File: lc.File, Debug: lc.Debug})
	if err != nil {
		return err
	}
	logCleanup = cleanup
	return nil
}
