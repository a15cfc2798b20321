package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/ledgerbank/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the run journal",
	Long: `Query and display replay runs recorded in a SQLite journal.

Subcommands:
  runs - List recorded runs
  show - Show one run with its final balances

Examples:
  ledgerbank journal runs
  ledgerbank journal show 01HRZ8Y4Q0ABCDEFGHJKMNPQRS --outcomes`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run with its balances",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalDBPath   string
	journalOutcomes bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./ledgerbank.sqlite", "path to SQLite journal DB")
	journalShowCmd.Flags().BoolVar(&journalOutcomes, "outcomes", false, "also print the run's activity log")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.OpenSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), journal.FormatRunsOrg(runs))
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.OpenSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	runID := args[0]
	run, err := j.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, journal.FormatRunOrg(run))

	if !journalOutcomes {
		return nil
	}
	recs, err := j.ListOutcomes(ctx, runID)
	if err != nil {
		return fmt.Errorf("list outcomes: %w", err)
	}
	fmt.Fprintln(out)
	for _, rec := range recs {
		o, err := rec.Outcome()
		if err != nil {
			return fmt.Errorf("outcome %d: %w", rec.Ledger, err)
		}
		fmt.Fprintln(out, o.String())
	}
	return nil
}
