// Package planner runs the dispatch engine for every configured strategy
// and shift of a scenario. Each run works on its own copy of the requests,
// so runs are executed in parallel.
package planner
