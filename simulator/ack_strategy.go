package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func chance() float64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Float64()
}

// AckStrategy decides whether and when the crew acknowledges a plan.
type AckStrategy interface {
	// Ack calls send once the plan is acknowledged. It returns false when
	// the plan is not acknowledged.
	Ack(ctx context.Context, planID string, send func(planID string) error) bool
}

// AutoAck acknowledges every plan after an optional fixed delay.
type AutoAck struct {
	Delay time.Duration
}

// Ack implements AckStrategy.
func (a AutoAck) Ack(ctx context.Context, planID string, send func(string) error) bool {
	if !wait(ctx, a.Delay) {
		return false
	}
	return send(planID) == nil
}

// RandomAck drops acknowledgments with the configured probability and
// waits for the specified delay before sending.
type RandomAck struct {
	Delay    time.Duration
	DropRate float64
}

// Ack implements AckStrategy.
func (r RandomAck) Ack(ctx context.Context, planID string, send func(string) error) bool {
	if r.DropRate > 0 && chance() < r.DropRate {
		return false
	}
	if !wait(ctx, r.Delay) {
		return false
	}
	return send(planID) == nil
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
