package database

import (
	"context"
	"database/sql"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/pkg/errors"
)

// ddl carries the handful of backend-specific SQL fragments a direct
// adapter needs. Schema DDL and SQL-dialect differences are explicitly
// out of scope for this module (spec §1); this is deliberately the
// smallest surface that lets one generic adapter drive all three
// backends.
type ddl struct {
	name              string
	createBenchmarks  string
	createSolvers     string
	createTestSets    string
	createRuns        string
	insertRun         string
	supportsAutoID    bool // false for ClickHouse: no native autoincrement
}

// direct is the shared implementation backing Direct/SQLite,
// Direct/DuckDB, and Direct/ClickHouse (spec §4.4). Writes are
// serialized through a FairMutex over the single underlying
// connection (spec §5: "only the adapter may issue SQL").
type direct struct {
	db         *sql.DB
	mu         cmn.FairMutex
	ddl        ddl
	insertStmt  *sql.Stmt
	nextID      int64 // used only when !ddl.supportsAutoID
	benchmarkID int64
}

func newDirect(db *sql.DB, d ddl) (*direct, error) {
	a := &direct{db: db, ddl: d}
	if _, err := db.Exec(d.createBenchmarks); err != nil {
		return nil, errors.Wrapf(err, "%s: create benchmarks table", d.name)
	}
	if _, err := db.Exec(d.createSolvers); err != nil {
		return nil, errors.Wrapf(err, "%s: create solvers table", d.name)
	}
	if _, err := db.Exec(d.createTestSets); err != nil {
		return nil, errors.Wrapf(err, "%s: create test_sets table", d.name)
	}
	if _, err := db.Exec(d.createRuns); err != nil {
		return nil, errors.Wrapf(err, "%s: create runs table", d.name)
	}
	stmt, err := db.Prepare(d.insertRun)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: prepare insert", d.name)
	}
	a.insertStmt = stmt
	return a, nil
}

func (a *direct) Init(ctx context.Context, cfg *cmn.Config, cctx *cmn.Context, benchmark, comment string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	benchmarkID, err := a.resolveBenchmark(ctx, benchmark, comment)
	if err != nil {
		return errors.Wrap(err, "resolve benchmark")
	}
	cctx.SetBenchmarkID(benchmarkID)
	a.benchmarkID = benchmarkID

	for name, sc := range cfg.Solvers {
		id, err := a.resolveSolver(ctx, name, sc)
		if err != nil {
			return errors.Wrapf(err, "resolve solver %q", name)
		}
		cctx.SetSolverID(name, id)
	}
	for name, tc := range cfg.Tests {
		id, err := a.resolveTestSet(ctx, name, tc)
		if err != nil {
			return errors.Wrapf(err, "resolve test set %q", name)
		}
		cctx.SetTestSetID(name, id)
	}
	return nil
}

func (a *direct) resolveBenchmark(ctx context.Context, benchmark, comment string) (int64, error) {
	var id int64
	row := a.db.QueryRowContext(ctx, `SELECT id FROM benchmarks WHERE name = ?`, benchmark)
	err := row.Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if a.ddl.supportsAutoID {
			res, err := a.db.ExecContext(ctx, `INSERT INTO benchmarks (name, comment) VALUES (?, ?)`, benchmark, comment)
			if err != nil {
				return 0, err
			}
			return a.lastInsertID(res)
		}
		// No native autoincrement (ClickHouse): the row's own id
		// column must carry the synthetic id explicitly, or every
		// later lookup by name resolves to the same default 0.
		newID := a.syntheticID()
		if _, err := a.db.ExecContext(ctx, `INSERT INTO benchmarks (id, name, comment) VALUES (?, ?, ?)`, newID, benchmark, comment); err != nil {
			return 0, err
		}
		return newID, nil
	case err != nil:
		return 0, err
	default:
		return id, nil
	}
}

// resolveSolver reuses an existing row if (name, exec, joined params,
// ingest) matches exactly, else inserts and returns the new id (spec
// §4.4, "Init").
func (a *direct) resolveSolver(ctx context.Context, name string, sc cmn.SolverConfig) (int64, error) {
	params := joinParams(sc.Params)
	var id int64
	row := a.db.QueryRowContext(ctx,
		`SELECT id FROM solvers WHERE name = ? AND exec = ? AND params = ? AND ingest = ?`,
		name, sc.Exec, params, sc.Ingest)
	err := row.Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if a.ddl.supportsAutoID {
			res, err := a.db.ExecContext(ctx,
				`INSERT INTO solvers (name, exec, params, ingest) VALUES (?, ?, ?, ?)`,
				name, sc.Exec, params, sc.Ingest)
			if err != nil {
				return 0, err
			}
			return a.lastInsertID(res)
		}
		newID := a.syntheticID()
		if _, err := a.db.ExecContext(ctx,
			`INSERT INTO solvers (id, name, exec, params, ingest) VALUES (?, ?, ?, ?, ?)`,
			newID, name, sc.Exec, params, sc.Ingest); err != nil {
			return 0, err
		}
		return newID, nil
	case err != nil:
		return 0, err
	default:
		return id, nil
	}
}

func (a *direct) resolveTestSet(ctx context.Context, name string, tc cmn.TestSetConfig) (int64, error) {
	params := joinParams(tc.Params)
	var id int64
	row := a.db.QueryRowContext(ctx,
		`SELECT id FROM test_sets WHERE name = ? AND timeout_ms = ? AND params = ?`,
		name, tc.TimeoutMS, params)
	err := row.Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if a.ddl.supportsAutoID {
			res, err := a.db.ExecContext(ctx,
				`INSERT INTO test_sets (name, timeout_ms, params) VALUES (?, ?, ?)`,
				name, tc.TimeoutMS, params)
			if err != nil {
				return 0, err
			}
			return a.lastInsertID(res)
		}
		newID := a.syntheticID()
		if _, err := a.db.ExecContext(ctx,
			`INSERT INTO test_sets (id, name, timeout_ms, params) VALUES (?, ?, ?, ?)`,
			newID, name, tc.TimeoutMS, params); err != nil {
			return 0, err
		}
		return newID, nil
	case err != nil:
		return 0, err
	default:
		return id, nil
	}
}

func (a *direct) lastInsertID(res sql.Result) (int64, error) {
	if a.ddl.supportsAutoID {
		return res.LastInsertId()
	}
	return a.syntheticID(), nil
}

// syntheticID hands out a process-local monotonic id for backends
// (ClickHouse) without a native autoincrement concept. The resolve*
// helpers write it into the new benchmark/solver/test-set row's id
// column and record it in cmn.Context; the counter starts at 1 in
// every process.
func (a *direct) syntheticID() int64 {
	a.nextID++
	return a.nextID
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += "\x1f" // unit separator: avoids ambiguity with params containing spaces/commas
		}
		out += p
	}
	return out
}

// runtimeValue encodes Runtime==0 as SQL NULL to distinguish
// "not measured" from "measured as zero" (spec §4.4).
func runtimeValue(ms int64) any {
	if ms == 0 {
		return nil
	}
	return ms
}

func (a *direct) Store(ctx context.Context, bundle cmn.MetricsBundle) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := a.execInsert(ctx, a.insertStmt, bundle)
	if err != nil {
		return 0, err
	}
	return a.lastInsertID(res)
}

func (a *direct) execInsert(ctx context.Context, stmt *sql.Stmt, b cmn.MetricsBundle) (sql.Result, error) {
	m := b.Metrics
	return stmt.ExecContext(ctx,
		runtimeValue(m.RuntimeMS), m.ParseTimeMS, int8(m.Satisfiable), m.MemoryUsageKB,
		m.Restarts, m.Conflicts, m.Propagations, m.ConflictLiterals,
		m.NumberOfVariables, m.NumberOfClauses,
		b.TargetPath, a.benchmarkID, b.SolverName, b.TestSetName,
	)
}

// StoreIter bulk-inserts within a single transaction (spec §4.4).
// Order of bundles is preserved, for debuggability (spec §9 open
// question).
func (a *direct) StoreIter(ctx context.Context, bundles []cmn.MetricsBundle) error {
	if len(bundles) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	stmt := tx.StmtContext(ctx, a.insertStmt)
	for _, b := range bundles {
		if _, err := a.execInsert(ctx, stmt, b); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "insert in batch")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit batch")
	}
	return nil
}

// Close retries up to three times on transient close failures (spec
// §4.4) before surfacing the error.
func (a *direct) Close(context.Context) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = a.insertStmt.Close(); err == nil {
			if err = a.db.Close(); err == nil {
				return nil
			}
		}
		nlog.Warningf("%s: close attempt %d failed: %v", a.ddl.name, attempt+1, err)
	}
	return errors.Wrapf(err, "%s: close failed after retries", a.ddl.name)
}
