// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - PlanComputed: a plan finished computing for a scenario
package events
