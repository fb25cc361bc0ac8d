package collector

import "os"

// GDB is a stub placeholder for a future remote source (spec §4.3).
// Construction succeeds but the sequence is always empty.
type GDB struct {
	Server string
	TmpDir string
}

// NewGDB resolves TmpDir from the given value, falling back to
// $TMPDIR then /tmp (spec §6, "Environment").
func NewGDB(server, tmpDir string) *GDB {
	if tmpDir == "" {
		tmpDir = os.Getenv("TMPDIR")
	}
	if tmpDir == "" {
		tmpDir = "/tmp"
	}
	return &GDB{Server: server, TmpDir: tmpDir}
}

func (g *GDB) Next() (WorkItem, bool, error) { return WorkItem{}, false, nil }

func (g *GDB) SizeHint() int { return 0 }
