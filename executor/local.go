// Package executor implements the Local and Distributed execution
// pipelines (spec §4.6 C6, §4.7 C7): bridging a Collector onto a
// fixed-size worker pool, spawning solver processes, and routing their
// output through an Ingestor into a storage Adapter.
package executor

import (
	"context"
	"sync"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/SAT-solver-ANalyzer/SATAn/collector"
	"github.com/SAT-solver-ANalyzer/SATAn/database"
	"github.com/SAT-solver-ANalyzer/SATAn/ingest"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Local is the C6 executor: a fixed-size worker pool fed by one
// Collector per test set.
type Local struct {
	cfg       *cmn.Config
	adapter   database.Adapter
	cctx      *cmn.Context
	counters  *cmn.Counters
	prom      *promCounters
	ingestors map[string]ingest.Ingestor
	pool      *pool
}

// NewLocal constructs the process-global worker pool and resolves
// every configured ingestor. Per spec §5, the pool is constructed
// exactly once per process; a second call to NewLocal panics.
// NewDistributed wraps an existing Local and builds no pool of its own.
func NewLocal(cfg *cmn.Config, adapter database.Adapter, cctx *cmn.Context, reg prometheus.Registerer) (*Local, error) {
	lc := cfg.Executor.Local
	if lc == nil {
		return nil, errors.New("executor: Local requested but executor.local is not configured")
	}

	ingestors, err := buildIngestors(cfg.Ingest)
	if err != nil {
		return nil, errors.Wrap(err, "resolve ingestors")
	}

	return &Local{
		cfg:       cfg,
		adapter:   adapter,
		cctx:      cctx,
		counters:  &cmn.Counters{},
		prom:      newPromCounters(reg),
		ingestors: ingestors,
		pool:      newPool(lc.Threads, lc.Pinned),
	}, nil
}

// Counters exposes the atomic progress/error counters (spec §4.6
// step 4).
func (l *Local) Counters() *cmn.Counters { return l.counters }

// Run bridges collectors onto the worker pool and executes the full
// Cartesian product of test-set solvers x iterations x collector
// items (spec §4.6, "Execution pipeline"). collectors supplies one
// Collector per test-set name to run; callers pre-build these (plain
// via buildCollector, or FS-claim-wrapped by Distributed) since the
// Local executor itself is collector-agnostic.
//
// testFilter/solverFilter restrict the run to the named test sets/
// solvers; an empty filter means "all". Run always closes adapter on
// the way out, even on task-generation error, so buffered wrappers
// flush (spec §4.6, "Termination").
func (l *Local) Run(ctx context.Context, collectors map[string]collector.Collector, testFilter, solverFilter []string) (runErr error) {
	defer func() {
		if err := l.adapter.Close(ctx); err != nil {
			if runErr == nil {
				runErr = err
			} else {
				nlog.Errorf("executor: adapter close failed in addition to run error: %v", err)
			}
		}
	}()

	names := selectNames(testNames(l.cfg.Tests), testFilter)
	var wg sync.WaitGroup

	for _, name := range names {
		tc, ok := l.cfg.Tests[name]
		if !ok {
			runErr = errors.Errorf("executor: unknown test set %q", name)
			break
		}
		coll, ok := collectors[name]
		if !ok {
			runErr = errors.Errorf("executor: no collector built for test set %q", name)
			break
		}

		solvers := resolveSolvers(tc, l.cfg.Solvers, solverFilter)
		if tc.TimeoutMS == 0 {
			runErr = errors.Errorf("test set %q: timeout == 0 is rejected", name)
			break
		}

		l.counters.AddTotal(int64(coll.SizeHint()) * int64(len(solvers)))
		l.prom.total.Add(float64(coll.SizeHint() * len(solvers)))

		for {
			item, ok, err := coll.Next()
			if err != nil {
				runErr = errors.Wrapf(err, "test set %q: collector", name)
				break
			}
			if !ok {
				break
			}

			for _, solverName := range solvers {
				item, solverName := item, solverName
				wg.Add(1)
				l.pool.submit(func() {
					defer wg.Done()
					l.runItem(ctx, name, tc, solverName, item)
				})
			}
		}
		if runErr != nil {
			break
		}
	}

	wg.Wait()
	l.pool.close()

	total, processed, iterations, errs := l.counters.Snapshot()
	nlog.Infof("executor: run complete: total=%d processed=%d iterations=%d errors=%d", total, processed, iterations, errs)

	return runErr
}

// runItem performs the sequential per-(set,solver,path) iteration
// loop (spec §4.6, "Ordering": "iterations are executed sequentially
// within one worker task"), holding item.Receipt for the entire span
// and releasing it only once all iterations complete.
func (l *Local) runItem(ctx context.Context, testName string, tc cmn.TestSetConfig, solverName string, item collector.WorkItem) {
	if item.Receipt != nil {
		defer item.Receipt.Release()
	}

	solver, ok := l.cfg.Solvers[solverName]
	if !ok {
		nlog.Errorf("executor: unknown solver %q", solverName)
		l.counters.IncErrors()
		l.prom.errors.Inc()
		return
	}
	ingestor, ok := l.ingestors[solver.Ingest]
	if !ok {
		nlog.Errorf("executor: solver %q references unknown ingestor %q", solverName, solver.Ingest)
		l.counters.IncErrors()
		l.prom.errors.Inc()
		return
	}

	iterations := tc.Iterations
	if iterations <= 0 {
		iterations = 1
	}

	for i := 0; i < iterations; i++ {
		l.counters.AddIterations(1)
		l.prom.iterations.Inc()

		spawned, err := spawnSolver(ctx, solver, tc.Params, item.Path, tc.TimeoutMS)
		if err != nil {
			nlog.Errorf("executor: spawn %q for %q failed: %v", solver.Exec, item.Path, err)
			l.counters.IncErrors()
			l.prom.errors.Inc()
			continue
		}

		var metrics cmn.Metrics
		if spawned.timeout {
			nlog.Warningf("executor: %q timed out on %q after %dms", solverName, item.Path, tc.TimeoutMS)
			metrics = cmn.Failed()
		} else {
			m, err := ingestor.Ingest(ctx, spawned.result)
			if err != nil {
				nlog.Errorf("executor: ingest failed for %q on %q: %v", solverName, item.Path, err)
				l.counters.IncErrors()
				l.prom.errors.Inc()
				continue
			}
			metrics = m
		}

		bundle := cmn.MetricsBundle{
			Metrics:     metrics,
			SolverName:  solverName,
			TestSetName: testName,
			TargetPath:  item.Path,
		}
		if _, err := l.adapter.Store(ctx, bundle); err != nil {
			nlog.Errorf("executor: store failed for %q on %q: %v", solverName, item.Path, err)
			l.counters.IncErrors()
			l.prom.errors.Inc()
			continue
		}
		l.counters.IncProcessed()
		l.prom.processed.Inc()
	}
}

func testNames(tests map[string]cmn.TestSetConfig) []string {
	names := make([]string, 0, len(tests))
	for name := range tests {
		names = append(names, name)
	}
	return names
}

// selectNames restricts all to filter, or returns all unchanged if
// filter is empty (spec §6, "--test <name>*").
func selectNames(all, filter []string) []string {
	if len(filter) == 0 {
		return all
	}
	want := make(map[string]bool, len(filter))
	for _, f := range filter {
		want[f] = true
	}
	var out []string
	for _, n := range all {
		if want[n] {
			out = append(out, n)
		}
	}
	return out
}

// resolveSolvers applies a test set's own solver subset, then the
// CLI's --solver filter on top. An empty tc.Solvers falls back to all
// configured solvers with a warning (spec §4.8, preflight); that
// fallback is applied again here defensively in case Run is invoked
// without preflight having run.
func resolveSolvers(tc cmn.TestSetConfig, all map[string]cmn.SolverConfig, filter []string) []string {
	base := tc.Solvers
	if len(base) == 0 {
		base = make([]string, 0, len(all))
		for name := range all {
			base = append(base, name)
		}
	}
	return selectNames(base, filter)
}
