// Package pipeline runs a batch: it discovers the .swf inputs, fans them
// out to a bounded pool of extraction workers, prints each result in
// completion order, and summarizes the run.
//
// Files:
//   - discover.go: Discover and DuplicateStems.
//   - pool.go: dispatch, the errgroup-bounded worker pool.
//   - runner.go: Run, result logging, the summary, report and archive hooks.
//   - stats.go: RunStats counters.
package pipeline
