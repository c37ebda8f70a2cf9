package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/airlift/config"
	"github.com/kilianp07/airlift/core/dispatch"
	"github.com/kilianp07/airlift/core/history"
	"github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/planner"
	"github.com/kilianp07/airlift/infra/logger"
	"github.com/kilianp07/airlift/pkg/export"
	"github.com/kilianp07/airlift/scenario"
)

type planFlags struct {
	remote   string
	format   string
	strategy string
	shift    string
	out      string
	save     bool
}

var pf planFlags

var planCmd = &cobra.Command{
	Use:   "plan [scenario-file]",
	Short: "Compute the dispatch plans of a scenario",
	Long: "Compute one plan per strategy and shift. The scenario is read from a YAML or JSON file,\n" +
		"or fetched from the configured remote source with --remote.",
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the registered strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range dispatch.Strategies() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&pf.remote, "remote", "", "fetch the scenario with this id from the remote source")
	f.StringVarP(&pf.format, "format", "f", "summary", "output format: summary, json or csv")
	f.StringVar(&pf.strategy, "strategy", "", "only keep the plans of this strategy")
	f.StringVar(&pf.shift, "shift", "", "only keep the plans of this shift")
	f.StringVarP(&pf.out, "out", "o", "", "write the output to a file instead of stdout")
	f.BoolVar(&pf.save, "save", false, "save the scenario in the history store")
	rootCmd.AddCommand(planCmd, strategiesCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := readScenario(ctx, cfg, args)
	if err != nil {
		return err
	}
	set, err := computePlans(ctx, cfg, sc)
	if err != nil {
		return err
	}
	plans, err := selectPlans(set.Plans, pf.strategy, pf.shift)
	if err != nil {
		return err
	}

	if pf.save {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		e, err := store.Save(ctx, history.Entry{Scenario: sc})
		if err != nil {
			return err
		}
		logger.New("cli").Infow("scenario saved", map[string]any{"id": e.ID, "backend": cfg.History.Type})
	}

	w := cmd.OutOrStdout()
	if pf.out != "" {
		f, err := os.Create(pf.out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return writePlans(w, pf.format, plans)
}

func readScenario(ctx context.Context, cfg *config.Config, args []string) (model.Scenario, error) {
	switch {
	case pf.remote != "" && len(args) > 0:
		return model.Scenario{}, fmt.Errorf("use either a scenario file or --remote")
	case pf.remote != "":
		src, err := scenario.NewRemoteSource(cfg.Remote)
		if err != nil {
			return model.Scenario{}, err
		}
		sc, err := src.Fetch(ctx, pf.remote)
		if err != nil {
			return model.Scenario{}, err
		}
		scenario.Normalize(&sc)
		return sc, scenario.Validate(sc)
	case len(args) == 1:
		return scenario.Load(args[0])
	default:
		return model.Scenario{}, fmt.Errorf("a scenario file or --remote is required")
	}
}

// computePlans runs every configured strategy, recording the plans in the
// configured metrics sinks.
func computePlans(ctx context.Context, cfg *config.Config, sc model.Scenario) (planner.PlanSet, error) {
	strategies, err := dispatch.NewStrategies(cfg.Strategies)
	if err != nil {
		return planner.PlanSet{}, err
	}
	sink, err := metrics.NewPlanSink(cfg.Metrics.Sinks)
	if err != nil {
		return planner.PlanSet{}, err
	}
	runner, err := planner.NewRunner(cfg.Engine, strategies,
		planner.WithSink(sink),
		planner.WithLogger(logger.New("planner")),
	)
	if err != nil {
		return planner.PlanSet{}, err
	}
	return runner.Run(ctx, sc)
}

func selectPlans(plans []model.DispatchPlan, strategy, shift string) ([]model.DispatchPlan, error) {
	var want model.Shift
	if shift != "" {
		s, err := model.ParseShift(shift)
		if err != nil {
			return nil, err
		}
		want = s
	}
	var out []model.DispatchPlan
	for _, p := range plans {
		if strategy != "" && p.Strategy != strategy {
			continue
		}
		if shift != "" && p.Shift != want {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no plan matches strategy %q and shift %q", strategy, shift)
	}
	return out, nil
}

func writePlans(w io.Writer, format string, plans []model.DispatchPlan) error {
	switch strings.ToLower(format) {
	case "json":
		return export.WriteJSON(w, plans)
	case "summary":
		return export.WriteSummaryCSV(w, plans)
	case "csv":
		if len(plans) != 1 {
			return fmt.Errorf("csv output needs a single plan: narrow it with --strategy and --shift")
		}
		return export.WriteCSV(w, plans[0])
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
