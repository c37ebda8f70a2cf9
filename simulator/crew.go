// Package simulator plays the flight crew on the other side of the plan
// topics: it receives published plans, checks them against the aircraft and
// acknowledges them.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/airlift/core/logger"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/replay"
	"github.com/kilianp07/airlift/infra/mqtt"
)

// Config holds parameters for the crew simulator.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	AckTopic    string
	// Vehicle, when set, is used to replay every plan before acknowledging.
	Vehicle    model.VehicleConfig
	AckLatency time.Duration
	DropRate   float64
}

// SetDefaults applies the topic defaults shared with the publisher.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("airlift-crew-%d", time.Now().UnixNano())
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = mqtt.DefaultTopicPrefix
	}
	if c.AckTopic == "" {
		c.AckTopic = c.TopicPrefix + "/ack"
	}
}

// Crew receives plans and acknowledges them.
type Crew struct {
	cfg      Config
	strategy AckStrategy
	send     func(planID string) error
	log      logger.Logger

	mu       sync.Mutex
	received map[string]model.DispatchPlan
	acked    map[string]bool
}

func newCrew(cfg Config, strategy AckStrategy, send func(string) error, log logger.Logger) *Crew {
	cfg.SetDefaults()
	return &Crew{
		cfg:      cfg,
		strategy: strategy,
		send:     send,
		log:      logger.OrNop(log),
		received: make(map[string]model.DispatchPlan),
		acked:    make(map[string]bool),
	}
}

// Run connects to the broker and answers plans until ctx is done.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Crew, error) {
	cfg.SetDefaults()
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	send := func(planID string) error {
		payload, err := json.Marshal(struct {
			PlanID string `json:"plan_id"`
		}{planID})
		if err != nil {
			return err
		}
		token := cli.Publish(cfg.AckTopic, 1, false, payload)
		if !token.WaitTimeout(5 * time.Second) {
			return fmt.Errorf("ack publish timeout for %s", planID)
		}
		return token.Error()
	}
	c := newCrew(cfg, RandomAck{Delay: cfg.AckLatency, DropRate: cfg.DropRate}, send, log)
	// prefix/<shift>/<strategy>; the ack topic has a single level
	topic := cfg.TopicPrefix + "/+/+"
	token := cli.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		go c.Handle(ctx, msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		cli.Disconnect(250)
		return nil, token.Error()
	}
	go func() {
		<-ctx.Done()
		cli.Disconnect(250)
	}()
	c.log.Infof("crew listening on %s", topic)
	return c, nil
}

// Handle processes one plan message and reports whether it was acknowledged.
func (c *Crew) Handle(ctx context.Context, payload []byte) bool {
	var msg mqtt.PlanMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.log.Warnf("decode plan: %v", err)
		return false
	}
	p := msg.Plan
	c.mu.Lock()
	c.received[p.ID] = p
	c.mu.Unlock()

	if c.cfg.Vehicle.SeatCapacity > 0 {
		if err := replay.Verify(p, c.cfg.Vehicle); err != nil {
			c.log.Warnf("refusing plan %s: %v", p.ID, err)
			return false
		}
	}
	if !c.strategy.Ack(ctx, p.ID, c.send) {
		return false
	}
	c.mu.Lock()
	c.acked[p.ID] = true
	c.mu.Unlock()
	c.log.Infow("plan acknowledged", map[string]any{"plan_id": p.ID, "strategy": p.Strategy, "shift": p.Shift.String()})
	return true
}

// Received returns the number of distinct plans seen.
func (c *Crew) Received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}

// Acked reports whether the plan was acknowledged.
func (c *Crew) Acked(planID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acked[planID]
}
