// Package orchestrator runs generation tasks in the background.
//
// Submit records a Pending task and returns its id without waiting for any
// work. A fixed pool of workers drains the job queue. Each job runs the
// pipeline synthesize, assemble, upload and presign, then completes the task
// exactly once as Finished with a download location or Failed with an error
// message. Tasks are observable only through Poll.
package orchestrator
