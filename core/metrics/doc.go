// Package metrics defines the sink contract used to observe planning runs.
// A PlanSink receives one PlanEvent per computed plan; sinks may also
// implement the optional recorder interfaces for history activity. Concrete
// sinks live in infra/metrics and register themselves with the factory. When
// several sinks are configured NewPlanSink wraps them in a MultiSink.
package metrics
