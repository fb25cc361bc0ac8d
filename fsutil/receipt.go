package fsutil

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
)

const (
	ProcessingPrefix = "[processing]_"
	DoneProcessedPrefix = "[done]_"
)

// ProcessingName returns the path original would have once claimed:
// its containing directory, with the base name prefixed.
func ProcessingName(original string) string {
	dir, base := filepath.Split(original)
	return filepath.Join(dir, ProcessingPrefix+base)
}

// IsDone reports whether a base file name already carries the
// "[done]_" prefix, letting a future scan cheaply skip it (spec §5,
// rationale for the done suffix).
func IsDone(base string) bool {
	return strings.HasPrefix(base, DoneProcessedPrefix)
}

// Receipt is a scoped resource representing a successfully claimed
// file under the "[processing]_" prefix (spec §4.2, C2). Construction
// is the FS-claim collector's responsibility, performed only after a
// successful atomic Rename; Release transitions the file to the
// "[done]_" state and must be called on every exit path of the task
// that owns the receipt (spec §9, "Scoped claim via destruction" —
// Go has no destructors, so this is the explicit defer-style stand-in).
type Receipt struct {
	once sync.Once
	path string
}

// NewClaimed wraps path, which must already carry the
// "[processing]_" prefix as the result of a successful rename. Not
// for use outside the collector package's FS-claim variant.
func NewClaimed(path string) *Receipt {
	return &Receipt{path: path}
}

// Path returns the current on-disk path of the receipt.
func (r *Receipt) Path() string { return r.path }

func (r *Receipt) String() string { return r.path }

// Release renames the claimed file from "[processing]_" to
// "[done]_". Idempotent: subsequent calls are no-ops. Failures are
// logged, never returned — release must not fail the run (spec §4.2).
func (r *Receipt) Release() {
	r.once.Do(func() {
		dir, base := filepath.Split(r.path)
		trimmed := strings.TrimPrefix(base, ProcessingPrefix)
		done := filepath.Join(dir, DoneProcessedPrefix+trimmed)

		outcome, err := Rename(r.path, done)
		if err != nil {
			nlog.Warningf("release: failed to mark %q done: %v (%s)", r.path, err, outcome)
			return
		}
		r.path = done
	})
}
