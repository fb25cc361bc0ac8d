package executor

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/collector"
	"github.com/SAT-solver-ANalyzer/SATAn/database"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local executor", func() {
	var dir string

	BeforeEach(func() {
		resetPoolForTest()
		var err error
		dir, err = os.MkdirTemp("", "executor-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	scriptSolver := func(body string) string {
		path := filepath.Join(dir, "solver.sh")
		Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)).To(Succeed())
		return path
	}

	writeCorpusFile := func(corpusDir, name string) string {
		Expect(os.MkdirAll(corpusDir, 0o755)).To(Succeed())
		path := filepath.Join(corpusDir, name)
		Expect(os.WriteFile(path, []byte("p cnf 1 1\n"), 0o644)).To(Succeed())
		return path
	}

	Context("with a batched storage adapter", func() {
		It("flushes size-4 batches plus a residual on close (spec §8 scenario 4)", func() {
			corpus := filepath.Join(dir, "corpus")
			for i := 0; i < 10; i++ {
				writeCorpusFile(corpus, string(rune('a'+i))+".cnf")
			}

			solver := scriptSolver(`cat <<'EOF'
runtime_ms: 1
satisfiable: 0
EOF
`)

			dbPath := filepath.Join(dir, "bench.db")
			base, err := database.NewSQLite(dbPath)
			Expect(err).NotTo(HaveOccurred())
			adapter, err := database.NewBatched(base, 4, 0)
			Expect(err).NotTo(HaveOccurred())

			cfg := &cmn.Config{
				Executor: cmn.ExecutorConfig{Local: &cmn.LocalExecutorConfig{Threads: 2}},
				Ingest:   map[string]cmn.IngestConfig{"null": {Null: &cmn.NullIngestConfig{}}},
				Solvers:  map[string]cmn.SolverConfig{"s": {Exec: solver, Ingest: "null"}},
				Tests: map[string]cmn.TestSetConfig{
					"all": {
						TimeoutMS:  5000,
						Iterations: 1,
						Solvers:    []string{"s"},
						Collector:  cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{corpus}, Glob: "*.cnf"}},
					},
				},
			}

			cctx := cmn.NewContext()
			Expect(adapter.Init(context.Background(), cfg, cctx, "bench-1", "")).To(Succeed())

			local, err := NewLocal(cfg, adapter, cctx, nil)
			Expect(err).NotTo(HaveOccurred())

			coll, err := buildCollector("all", cfg.Tests)
			Expect(err).NotTo(HaveOccurred())

			Expect(local.Run(context.Background(), map[string]collector.Collector{"all": coll}, nil, nil)).To(Succeed())

			verify, err := sql.Open("sqlite3", dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer verify.Close()

			var count int
			Expect(verify.QueryRow(`SELECT count(*) FROM runs`).Scan(&count)).To(Succeed())
			Expect(count).To(Equal(10))
		})
	})

	Context("with a solver whose ingestor is misconfigured", func() {
		It("counts the failure as an error and writes no row (spec §7, ingestor errors)", func() {
			corpus := filepath.Join(dir, "corpus")
			writeCorpusFile(corpus, "a.cnf")

			solver := scriptSolver(`echo "not yaml: [unterminated"
`)

			dbPath := filepath.Join(dir, "bench.db")
			adapter, err := database.NewSQLite(dbPath)
			Expect(err).NotTo(HaveOccurred())

			cfg := &cmn.Config{
				Executor: cmn.ExecutorConfig{Local: &cmn.LocalExecutorConfig{Threads: 1}},
				Ingest:   map[string]cmn.IngestConfig{"null": {Null: &cmn.NullIngestConfig{}}},
				Solvers:  map[string]cmn.SolverConfig{"s": {Exec: solver, Ingest: "null"}},
				Tests: map[string]cmn.TestSetConfig{
					"all": {
						TimeoutMS:  5000,
						Iterations: 1,
						Solvers:    []string{"s"},
						Collector:  cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{corpus}, Glob: "*.cnf"}},
					},
				},
			}

			cctx := cmn.NewContext()
			Expect(adapter.Init(context.Background(), cfg, cctx, "bench-1", "")).To(Succeed())

			local, err := NewLocal(cfg, adapter, cctx, nil)
			Expect(err).NotTo(HaveOccurred())

			coll, err := buildCollector("all", cfg.Tests)
			Expect(err).NotTo(HaveOccurred())

			Expect(local.Run(context.Background(), map[string]collector.Collector{"all": coll}, nil, nil)).To(Succeed())

			_, processed, _, errs := local.Counters().Snapshot()
			Expect(processed).To(Equal(int64(0)))
			Expect(errs).To(Equal(int64(1)))
		})
	})

	Context("with a Grouped collector and a single worker", func() {
		It("exhausts the first child entirely before the second (spec §4.3 ordering)", func() {
			dirA := filepath.Join(dir, "a")
			dirB := filepath.Join(dir, "b")
			writeCorpusFile(dirA, "1.cnf")
			writeCorpusFile(dirB, "2.cnf")

			solver := scriptSolver(`cat <<'EOF'
runtime_ms: 1
satisfiable: 0
EOF
`)

			dbPath := filepath.Join(dir, "bench.db")
			adapter, err := database.NewSQLite(dbPath)
			Expect(err).NotTo(HaveOccurred())

			cfg := &cmn.Config{
				Executor: cmn.ExecutorConfig{Local: &cmn.LocalExecutorConfig{Threads: 1}},
				Ingest:   map[string]cmn.IngestConfig{"null": {Null: &cmn.NullIngestConfig{}}},
				Solvers:  map[string]cmn.SolverConfig{"s": {Exec: solver, Ingest: "null"}},
				Tests: map[string]cmn.TestSetConfig{
					"groupA": {TimeoutMS: 5000, Iterations: 1, Solvers: []string{"s"},
						Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{dirA}, Glob: "*.cnf"}}},
					"groupB": {TimeoutMS: 5000, Iterations: 1, Solvers: []string{"s"},
						Collector: cmn.CollectorConfig{Glob: &cmn.GlobCollectorConfig{Paths: []string{dirB}, Glob: "*.cnf"}}},
					"joined": {TimeoutMS: 5000, Iterations: 1, Solvers: []string{"s"},
						Collector: cmn.CollectorConfig{Grouped: &cmn.GroupedCollectorConfig{Collectors: []string{"groupA", "groupB"}}}},
				},
			}

			cctx := cmn.NewContext()
			Expect(adapter.Init(context.Background(), cfg, cctx, "bench-1", "")).To(Succeed())

			local, err := NewLocal(cfg, adapter, cctx, nil)
			Expect(err).NotTo(HaveOccurred())

			coll, err := buildCollector("joined", cfg.Tests)
			Expect(err).NotTo(HaveOccurred())

			Expect(local.Run(context.Background(), map[string]collector.Collector{"joined": coll}, []string{"joined"}, nil)).To(Succeed())

			verify, err := sql.Open("sqlite3", dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer verify.Close()

			rows, err := verify.Query(`SELECT target FROM runs ORDER BY id`)
			Expect(err).NotTo(HaveOccurred())
			defer rows.Close()

			var targets []string
			for rows.Next() {
				var target string
				Expect(rows.Scan(&target)).To(Succeed())
				targets = append(targets, target)
			}
			Expect(targets).To(HaveLen(2))
			Expect(targets[0]).To(ContainSubstring("1.cnf"))
			Expect(targets[1]).To(ContainSubstring("2.cnf"))
		})
	})
})
