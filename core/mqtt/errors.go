package mqtt

import "errors"

// ErrAckTimeout is returned when no acknowledgment is received before the timeout.
var ErrAckTimeout = errors.New("timeout waiting for ack")

// ErrUnknownPlan is returned when waiting for a plan that was never published.
var ErrUnknownPlan = errors.New("unknown plan")
