// Package engine implements the scheduling core of the application.
//
// An Engine drives one simulated, sequential execution pass over a registry
// of tasks. It maintains a logical clock, repeatedly selects the most urgent
// ready task from a priority pool, "executes" it by advancing the clock by
// the task's duration, and releases any tasks that become ready as a result.
// The pass produces a Result describing the execution order, every task that
// could not be scheduled, and any deadline risks observed along the way.
//
// A single Engine serves a single run. Nothing in this package is shared
// between runs, so concurrent runs only require constructing one engine per
// registry.
package engine
