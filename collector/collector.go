// Package collector implements the composable, lazy sources of work
// (input file paths) described in spec §4.3 (C3): Glob, Grouped, GDB,
// FS-claim, and the reserved Coordinated stub.
package collector

import "github.com/SAT-solver-ANalyzer/SATAn/fsutil"

// WorkItem is an input file path plus an optional claim receipt
// (spec §3, "Work item"). Receipt is nil outside FS-claim mode.
type WorkItem struct {
	Path    string
	Receipt *fsutil.Receipt
}

func (w WorkItem) String() string { return w.Path }

// Collector is a single-threaded lazy iterator over WorkItems (spec
// §4.3, "Concurrency contract"). Next returns ok=false once the
// sequence is exhausted; callers must not call Next again afterwards.
// Collectors are not safe for concurrent use — the executor bridges
// one Collector onto its worker pool from a single goroutine.
type Collector interface {
	Next() (WorkItem, bool, error)

	// SizeHint estimates the number of remaining items. For Glob/GDB
	// it is exact; for Grouped it is the sum of children's hints; for
	// FS-claim it is the inner collector's hint, an upper bound only
	// (spec §8).
	SizeHint() int
}
