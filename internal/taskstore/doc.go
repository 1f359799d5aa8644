// Package taskstore records the lifecycle of generation tasks.
//
// A task is created Pending and moves to Finished or Failed exactly once.
// Complete is a compare-and-set on the stored state, so concurrent completions
// of the same task cannot both succeed and a terminal task never reverts.
// Readers always observe a whole task, either before or after a transition.
//
// Two implementations are provided: Memory, a sync.Map keyed by task id for a
// single process, and Redis, for sharing task state between processes.
package taskstore
