package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
)

func writeExecutable(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func baseConfig(t *testing.T) *cmn.Config {
	solverExec := writeExecutable(t, "solver")
	ingestExec := writeExecutable(t, "ingest")

	return &cmn.Config{
		Executor: cmn.ExecutorConfig{Local: &cmn.LocalExecutorConfig{Threads: 1}},
		Database: cmn.DatabaseConfig{Connection: cmn.ConnectionConfig{SQLite: &cmn.SQLiteConfig{Path: "bench.db"}}},
		Ingest: map[string]cmn.IngestConfig{
			"parser": {Exec: &cmn.ExecIngestConfig{Executable: ingestExec, TimeoutMS: 1000}},
		},
		Solvers: map[string]cmn.SolverConfig{
			"minisat": {Exec: solverExec, Ingest: "parser"},
		},
		Tests: map[string]cmn.TestSetConfig{
			"small": {
				TimeoutMS: 1000,
				Solvers:   []string{"minisat"},
				Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{"/corpus"}, Glob: "*.cnf"}},
			},
		},
	}
}

func TestCheckPasses(t *testing.T) {
	cfg := baseConfig(t)
	res := Check(cfg)
	if !res.OK() {
		t.Fatalf("expected success, got: %v", res.Error())
	}
}

func TestCheckNoSolvers(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Solvers = nil
	res := Check(cfg)
	if res.OK() {
		t.Fatal("expected failure for no solvers")
	}
}

func TestCheckMissingExecutable(t *testing.T) {
	cfg := baseConfig(t)
	sc := cfg.Solvers["minisat"]
	sc.Exec = "/does/not/exist"
	cfg.Solvers["minisat"] = sc

	res := Check(cfg)
	if res.OK() {
		t.Fatal("expected failure for missing solver executable")
	}
}

func TestCheckUnresolvedIngestReference(t *testing.T) {
	cfg := baseConfig(t)
	sc := cfg.Solvers["minisat"]
	sc.Ingest = "nonexistent"
	cfg.Solvers["minisat"] = sc

	res := Check(cfg)
	if res.OK() {
		t.Fatal("expected failure for unresolved ingest reference")
	}
}

func TestCheckGroupedUnknownReference(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Tests["grouped"] = cmn.TestSetConfig{
		TimeoutMS: 1000,
		Collector: cmn.CollectorConfig{Grouped: &cmn.GroupedCollectorConfig{Collectors: []string{"missing"}}},
	}
	res := Check(cfg)
	if res.OK() {
		t.Fatal("expected failure for grouped reference to unknown test set")
	}
}

func TestCheckPathMergedIntoPaths(t *testing.T) {
	cfg := baseConfig(t)
	tc := cfg.Tests["small"]
	tc.Collector.Glob.Path = "/extra"
	cfg.Tests["small"] = tc

	res := Check(cfg)
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Error())
	}
	g := cfg.Tests["small"].Collector.Glob
	if g.Path != "" {
		t.Fatalf("expected path to be cleared, got %q", g.Path)
	}
	found := false
	for _, p := range g.Paths {
		if p == "/extra" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected /extra merged into paths, got %v", g.Paths)
	}
}

func TestCheckZeroTimeoutRejected(t *testing.T) {
	cfg := baseConfig(t)
	tc := cfg.Tests["small"]
	tc.TimeoutMS = 0
	cfg.Tests["small"] = tc

	res := Check(cfg)
	if res.OK() {
		t.Fatal("expected failure for timeout_ms == 0")
	}
}

func TestCheckEmptySolversFallsBackToAll(t *testing.T) {
	cfg := baseConfig(t)
	tc := cfg.Tests["small"]
	tc.Solvers = nil
	cfg.Tests["small"] = tc

	res := Check(cfg)
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Error())
	}
	if len(cfg.Tests["small"].Solvers) != 1 || cfg.Tests["small"].Solvers[0] != "minisat" {
		t.Fatalf("expected fallback to all solvers, got %v", cfg.Tests["small"].Solvers)
	}
}

func TestCheckClickHouseAuthBothOrNeither(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Database.Connection = cmn.ConnectionConfig{ClickHouse: &cmn.ClickHouseConfig{Server: "localhost", DB: "bench", User: "alice"}}

	res := Check(cfg)
	if res.OK() {
		t.Fatal("expected failure for user set without password")
	}
}

func TestCheckDistributedFileSystemPrependsHostname(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Executor.Distributed = &cmn.DistributedExecutorConfig{
		Synchronization: cmn.SyncConfig{FileSystem: &cmn.FileSystemSyncConfig{Path: "/claims"}},
	}

	res := Check(cfg)
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Error())
	}
	host, err := os.Hostname()
	if err != nil {
		t.Fatalf("os.Hostname: %v", err)
	}
	want := host + "_bench.db"
	if cfg.Database.Connection.SQLite.Path != want {
		t.Fatalf("expected db path %q, got %q", want, cfg.Database.Connection.SQLite.Path)
	}
}

// TestCheckDistributedFileSystemPreservesDirectory asserts that only
// the file's base name is hostname-prefixed, not the whole path — the
// realistic shared-mount scenario this sync mode exists for.
func TestCheckDistributedFileSystemPreservesDirectory(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Database.Connection.SQLite.Path = "/shared/results/bench.db"
	cfg.Executor.Distributed = &cmn.DistributedExecutorConfig{
		Synchronization: cmn.SyncConfig{FileSystem: &cmn.FileSystemSyncConfig{Path: "/claims"}},
	}

	res := Check(cfg)
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Error())
	}
	host, err := os.Hostname()
	if err != nil {
		t.Fatalf("os.Hostname: %v", err)
	}
	want := filepath.Join("/shared/results", host+"_bench.db")
	if cfg.Database.Connection.SQLite.Path != want {
		t.Fatalf("expected db path %q, got %q", want, cfg.Database.Connection.SQLite.Path)
	}
}
