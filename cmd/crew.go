package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/airlift/infra/logger"
	"github.com/kilianp07/airlift/simulator"
)

var crewCfg simulator.Config

var crewCmd = &cobra.Command{
	Use:   "crew",
	Short: "Simulate the flight crew acknowledging published plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := commandContext(cmd)
		defer stop()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c := crewCfg
		if c.Broker == "" {
			c.Broker = cfg.MQTT.Broker
		}
		if c.TopicPrefix == "" {
			c.TopicPrefix = cfg.MQTT.TopicPrefix
			c.AckTopic = cfg.MQTT.AckTopic
		}
		if _, err := simulator.Run(ctx, c, logger.New("crew")); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	f := crewCmd.Flags()
	f.StringVar(&crewCfg.Broker, "broker", "", "MQTT broker URL, defaults to the configured broker")
	f.StringVar(&crewCfg.TopicPrefix, "topic-prefix", "", "plan topic prefix")
	f.DurationVar(&crewCfg.AckLatency, "ack-latency", 0, "delay before acknowledging")
	f.Float64Var(&crewCfg.DropRate, "drop-rate", 0, "probability of never acknowledging a plan")
	f.IntVar(&crewCfg.Vehicle.SeatCapacity, "seats", 0, "seat capacity used to replay plans, 0 skips the check")
	f.Float64Var(&crewCfg.Vehicle.MaxPayloadWeight, "payload", 0, "payload ceiling used to replay plans")
	rootCmd.AddCommand(crewCmd)
}
