package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/replay"
	"github.com/kilianp07/airlift/scenario"
)

var replayFlags struct {
	strategy string
	shift    string
}

var replayCmd = &cobra.Command{
	Use:   "replay scenario-file",
	Short: "Fly a plan leg by leg and print the cabin after each leg",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayFlags.strategy, "strategy", "segmented", "strategy of the replayed plan")
	replayCmd.Flags().StringVar(&replayFlags.shift, "shift", "morning", "shift of the replayed plan")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	set, err := computePlans(ctx, cfg, sc)
	if err != nil {
		return err
	}
	plans, err := selectPlans(set.Plans, replayFlags.strategy, replayFlags.shift)
	if err != nil {
		return err
	}
	frames, err := replay.Replay(plans[0], sc.Vehicle)
	if werr := writeFrames(cmd.OutOrStdout(), plans[0], frames); werr != nil {
		return werr
	}
	return err
}

func writeFrames(w io.Writer, p model.DispatchPlan, frames []replay.Frame) error {
	if _, err := fmt.Fprintf(w, "%s / %s: %s, %d legs\n", p.Title, p.Shift, p.Outcome, len(p.Legs)); err != nil {
		return err
	}
	for _, f := range frames {
		ids := make([]string, len(f.Aboard))
		for i, r := range f.Aboard {
			ids[i] = r.ID
		}
		if _, err := fmt.Fprintf(w, "%3d %-8s %-4s seats=%d weight=%.1f aboard=%v\n",
			f.Index, f.Kind, f.Station, f.Seats, f.Weight, ids); err != nil {
			return err
		}
	}
	return nil
}
