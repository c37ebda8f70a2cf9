package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/airlift/core/dispatch"
	"github.com/kilianp07/airlift/core/history"
	"github.com/kilianp07/airlift/core/planner"
	"github.com/kilianp07/airlift/infra/kpi"
	"github.com/kilianp07/airlift/infra/logger"
	"github.com/kilianp07/airlift/jobs/kpibackfill"
)

var historyFlags struct {
	name  string
	limit int
	kpiDB string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the saved scenarios",
}

var historyLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved scenarios, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryLs,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm id...",
	Short: "Delete saved scenarios",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryRm,
}

var historyBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Plan the saved scenarios again and store their daily KPIs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryBackfill,
}

func init() {
	historyLsCmd.Flags().StringVar(&historyFlags.name, "name", "", "only list scenarios whose name contains this text")
	historyLsCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 0, "maximum number of scenarios")
	historyBackfillCmd.Flags().StringVar(&historyFlags.kpiDB, "kpi-db", "kpi.db", "SQLite database receiving the KPI records")
	historyCmd.AddCommand(historyLsCmd, historyRmCmd, historyBackfillCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (history.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History)
}

func runHistoryLs(cmd *cobra.Command, _ []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	entries, err := store.List(cmd.Context(), history.Query{Name: historyFlags.name, Limit: historyFlags.limit})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-24q %d requests\n",
			e.ID, e.SavedAt.Local().Format(time.DateTime), e.Scenario.Name, len(e.Scenario.Requests)); err != nil {
			return err
		}
	}
	return nil
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	for _, id := range args {
		if err := store.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return nil
}

func runHistoryBackfill(cmd *cobra.Command, _ []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	entries, err := store.List(ctx, history.Query{})
	if err != nil {
		return err
	}

	strategies, err := dispatch.NewStrategies(cfg.Strategies)
	if err != nil {
		return err
	}
	runner, err := planner.NewRunner(cfg.Engine, strategies, planner.WithLogger(logger.New("planner")))
	if err != nil {
		return err
	}
	kpis, err := kpi.NewSQLiteStore(historyFlags.kpiDB)
	if err != nil {
		return err
	}
	defer func() { _ = kpis.Close() }()

	n, err := kpibackfill.Backfill(ctx, runner, entries, kpis)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d records from %d scenarios\n", n, len(entries))
	return err
}
