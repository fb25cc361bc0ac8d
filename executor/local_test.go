package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/collector"
	"github.com/SAT-solver-ANalyzer/SATAn/database"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestAdapter(t *testing.T) database.Adapter {
	t.Helper()
	a, err := database.NewSQLite(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	return a
}

// TestLocalRunGlobSingle covers spec §8's "glob collector over a
// single matching file runs exactly once per solver/iteration".
func TestLocalRunGlobSingle(t *testing.T) {
	resetPoolForTest()
	dir := t.TempDir()

	solver := writeScript(t, dir, "solver.sh", `cat <<'EOF'
runtime_ms: 5
parse_time_ms: 1
satisfiable: 1
memory_usage_kb: 100
restarts: 0
conflicts: 0
propagations: 0
conflict_literals: 0
number_of_variables: 3
number_of_clauses: 2
EOF
`)

	corpus := filepath.Join(dir, "corpus")
	if err := os.Mkdir(corpus, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(corpus, "a.cnf")
	if err := os.WriteFile(target, []byte("p cnf 3 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	adapter := newTestAdapter(t)
	cfg := &cmn.Config{
		Executor: cmn.ExecutorConfig{Local: &cmn.LocalExecutorConfig{Threads: 1}},
		Ingest: map[string]cmn.IngestConfig{
			"null": {Null: &cmn.NullIngestConfig{}},
		},
		Solvers: map[string]cmn.SolverConfig{
			"minisat": {Exec: solver, Ingest: "null"},
		},
		Tests: map[string]cmn.TestSetConfig{
			"small": {
				TimeoutMS:  5000,
				Iterations: 1,
				Solvers:    []string{"minisat"},
				Collector:  cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{corpus}, Glob: "*.cnf"}},
			},
		},
	}

	cctx := cmn.NewContext()
	if err := adapter.Init(context.Background(), cfg, cctx, "bench-1", ""); err != nil {
		t.Fatalf("Init: %v", err)
	}

	local, err := NewLocal(cfg, adapter, cctx, nil)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	coll, err := buildCollector("small", cfg.Tests)
	if err != nil {
		t.Fatalf("buildCollector: %v", err)
	}

	if err := local.Run(context.Background(), map[string]collector.Collector{"small": coll}, nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, processed, iterations, errs := local.Counters().Snapshot()
	if processed != 1 {
		t.Fatalf("expected 1 processed run, got %d", processed)
	}
	if iterations != 1 {
		t.Fatalf("expected 1 iteration, got %d", iterations)
	}
	if errs != 0 {
		t.Fatalf("expected 0 errors, got %d", errs)
	}
}

// TestLocalRunTimeout covers spec §8's timeout scenario: a solver
// that outlives the configured timeout is killed and a failed metrics
// bundle (Unknown satisfiability) is recorded instead of an error.
func TestLocalRunTimeout(t *testing.T) {
	resetPoolForTest()
	dir := t.TempDir()

	solver := writeScript(t, dir, "slow.sh", "sleep 5\n")

	corpus := filepath.Join(dir, "corpus")
	if err := os.Mkdir(corpus, 0o755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(corpus, "a.cnf")
	if err := os.WriteFile(target, []byte("p cnf 3 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	adapter := newTestAdapter(t)
	cfg := &cmn.Config{
		Executor: cmn.ExecutorConfig{Local: &cmn.LocalExecutorConfig{Threads: 1}},
		Ingest: map[string]cmn.IngestConfig{
			"null": {Null: &cmn.NullIngestConfig{}},
		},
		Solvers: map[string]cmn.SolverConfig{
			"slow": {Exec: solver, Ingest: "null"},
		},
		Tests: map[string]cmn.TestSetConfig{
			"small": {
				TimeoutMS:  50,
				Iterations: 1,
				Solvers:    []string{"slow"},
				Collector:  cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{corpus}, Glob: "*.cnf"}},
			},
		},
	}

	cctx := cmn.NewContext()
	if err := adapter.Init(context.Background(), cfg, cctx, "bench-1", ""); err != nil {
		t.Fatalf("Init: %v", err)
	}

	local, err := NewLocal(cfg, adapter, cctx, nil)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	coll, err := buildCollector("small", cfg.Tests)
	if err != nil {
		t.Fatalf("buildCollector: %v", err)
	}

	if err := local.Run(context.Background(), map[string]collector.Collector{"small": coll}, nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, processed, _, errs := local.Counters().Snapshot()
	if processed != 1 {
		t.Fatalf("expected the timed-out run to still be recorded as processed, got %d", processed)
	}
	if errs != 0 {
		t.Fatalf("a timeout is not an error per spec §4.6, got %d errors", errs)
	}
}
