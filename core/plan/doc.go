// Package plan assembles flight legs into an immutable DispatchPlan and
// derives its summary metrics. The Builder is single-use and not safe for
// concurrent use; the plans it produces are.
package plan
