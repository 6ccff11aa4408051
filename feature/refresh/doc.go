// Package refresh keeps inventory prices current in resumable batches.
//
// A run visits every named row that has no price or a stale one. Owned rows
// come first, then unowned rows unless the run is owned-only. Within a pass,
// rows without a price come before stale ones, then set order, then row order.
// Fresh rows are skipped.
//
// Each invocation processes at most BatchSize rows or runs for at most
// TimeBudget, then writes every staged row in one batch and persists a Cursor
// holding the position of the next row. The next invocation rebuilds the plan
// from current data and continues from that position, so an interrupted run
// ends with the same prices as an uninterrupted one.
//
// States follow a fixed transition table:
//
//	idle -> owned-pass -> unowned-pass -> complete
//	          |               |
//	          +-> checkpointed <-+
//
// The scheduler is single-writer; overlapping calls get ErrRunInProgress.
package refresh
