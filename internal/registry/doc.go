// Package registry provides the bookkeeping core for a scheduling run.
//
// The Registry holds every task that has been submitted but not yet
// completed, preserves the order in which tasks were added, and tracks which
// tasks have finished. Its central query, Ready, returns the pending tasks
// whose prerequisites have all completed; the scheduling engine drains the
// registry by repeatedly asking for ready tasks and marking them complete.
//
// A task whose dependency was removed, or never existed, simply never
// becomes ready. The registry does not detect this situation itself; the
// engine reports such tasks as unscheduled when a run stalls.
package registry
