package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
)

func TestCleanRestoresPrefixedNames(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("p cnf 0 0"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("[processing]_a.cnf")
	write("[done]_b.cnf")
	write("c.cnf")

	cfg := &cmn.Config{
		Tests: map[string]cmn.TestSetConfig{
			"all": {Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{dir}, Glob: "*.cnf"}}},
		},
	}

	restored, err := Clean(cfg)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if restored != 2 {
		t.Fatalf("restored = %d, want 2", restored)
	}

	for _, want := range []string{"a.cnf", "b.cnf", "c.cnf"} {
		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Fatalf("expected %q to exist: %v", want, err)
		}
	}
}

// TestCleanRestoresNestedSubdirectories asserts that clean reaches
// claimed files below the top level of a glob root, matching
// collector.NewGlob's own recursive reach (spec §6).
func TestCleanRestoresNestedSubdirectories(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "category")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "[processing]_x.cnf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &cmn.Config{
		Tests: map[string]cmn.TestSetConfig{
			"all": {Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{dir}, Glob: "*.cnf"}}},
		},
	}

	restored, err := Clean(cfg)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if restored != 1 {
		t.Fatalf("restored = %d, want 1", restored)
	}
	if _, err := os.Stat(filepath.Join(nested, "x.cnf")); err != nil {
		t.Fatalf("expected restored nested file: %v", err)
	}
}

func TestCleanResolvesGroupedRoots(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	if err := os.WriteFile(filepath.Join(dirA, "[processing]_1.cnf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dirB, "[done]_2.cnf"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &cmn.Config{
		Tests: map[string]cmn.TestSetConfig{
			"groupA": {Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{dirA}, Glob: "*.cnf"}}},
			"groupB": {Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{dirB}, Glob: "*.cnf"}}},
			"joined": {Collector: cmn.CollectorConfig{Grouped: &cmn.GroupedCollectorConfig{Collectors: []string{"groupA", "groupB"}}}},
		},
	}

	restored, err := Clean(cfg)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if restored != 2 {
		t.Fatalf("restored = %d, want 2", restored)
	}
}

func TestCleanSkipsGDBCollectors(t *testing.T) {
	cfg := &cmn.Config{
		Tests: map[string]cmn.TestSetConfig{
			"remote": {Collector: cmn.CollectorConfig{GDB: &cmn.GDBCollectorConfig{Server: "gdb://example"}}},
		},
	}

	restored, err := Clean(cfg)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if restored != 0 {
		t.Fatalf("restored = %d, want 0", restored)
	}
}
