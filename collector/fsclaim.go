package collector

import (
	"os"
	"path/filepath"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/SAT-solver-ANalyzer/SATAn/fsutil"
)

// FSClaim wraps another collector, racing other hosts for each file
// via atomic rename to a "[processing]_"-prefixed name (spec §4.3,
// "FS-claim"). Exactly one of N racing processes observes a given
// unclaimed file; the rest silently skip it.
type FSClaim struct {
	inner Collector
}

func NewFSClaim(inner Collector) *FSClaim {
	return &FSClaim{inner: inner}
}

func (f *FSClaim) Next() (WorkItem, bool, error) {
	for {
		item, ok, err := f.inner.Next()
		if err != nil {
			return WorkItem{}, false, err
		}
		if !ok {
			return WorkItem{}, false, nil
		}

		// Already a receipt (e.g. a nested FS-claim, or re-driven
		// from a prior run): pass through unchanged.
		if item.Receipt != nil {
			return item, true, nil
		}

		claimed, ok := f.tryClaim(item.Path)
		if !ok {
			continue
		}
		return claimed, true, nil
	}
}

func (f *FSClaim) tryClaim(path string) (WorkItem, bool) {
	if _, err := os.Stat(path); err != nil {
		// Vanished between enumeration and claim attempt: not our
		// concern, move on.
		return WorkItem{}, false
	}

	base := filepath.Base(path)
	if fsutil.IsDone(base) {
		return WorkItem{}, false
	}

	dest := fsutil.ProcessingName(path)
	outcome, err := fsutil.Rename(path, dest)
	switch outcome {
	case fsutil.RenameOK:
		return WorkItem{Path: dest, Receipt: fsutil.NewClaimed(dest)}, true
	case fsutil.RenameNotFound:
		// Lost the race to another host/worker: silent skip (spec §4.3).
		return WorkItem{}, false
	case fsutil.RenamePermissionDenied:
		nlog.Warningf("fsclaim: permission denied claiming %q: %v", path, err)
		return WorkItem{}, false
	default:
		nlog.Warningf("fsclaim: failed to claim %q: %v", path, err)
		return WorkItem{}, false
	}
}

func (f *FSClaim) SizeHint() int { return f.inner.SizeHint() }
