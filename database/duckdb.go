package database

import (
	"database/sql"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"
)

var duckdbDDL = ddl{
	name:           "duckdb",
	supportsAutoID: true,
	createBenchmarks: `CREATE SEQUENCE IF NOT EXISTS benchmarks_seq;
	CREATE TABLE IF NOT EXISTS benchmarks (
		id BIGINT PRIMARY KEY DEFAULT nextval('benchmarks_seq'),
		name VARCHAR NOT NULL UNIQUE,
		comment VARCHAR
	)`,
	createSolvers: `CREATE SEQUENCE IF NOT EXISTS solvers_seq;
	CREATE TABLE IF NOT EXISTS solvers (
		id BIGINT PRIMARY KEY DEFAULT nextval('solvers_seq'),
		name VARCHAR NOT NULL,
		exec VARCHAR NOT NULL,
		params VARCHAR NOT NULL,
		ingest VARCHAR NOT NULL
	)`,
	createTestSets: `CREATE SEQUENCE IF NOT EXISTS test_sets_seq;
	CREATE TABLE IF NOT EXISTS test_sets (
		id BIGINT PRIMARY KEY DEFAULT nextval('test_sets_seq'),
		name VARCHAR NOT NULL,
		timeout_ms BIGINT NOT NULL,
		params VARCHAR NOT NULL
	)`,
	createRuns: `CREATE SEQUENCE IF NOT EXISTS runs_seq;
	CREATE TABLE IF NOT EXISTS runs (
		id BIGINT PRIMARY KEY DEFAULT nextval('runs_seq'),
		runtime BIGINT,
		parse_time BIGINT,
		satisfiable TINYINT,
		memory_usage BIGINT,
		restarts BIGINT,
		conflicts BIGINT,
		propagations BIGINT,
		conflict_literals BIGINT,
		number_of_variables BIGINT,
		number_of_clauses BIGINT,
		target VARCHAR,
		solver_id BIGINT,
		test_id BIGINT,
		benchmark_id BIGINT
	)`,
	insertRun: `INSERT INTO runs (
		runtime, parse_time, satisfiable, memory_usage, restarts, conflicts,
		propagations, conflict_literals, number_of_variables, number_of_clauses,
		target, benchmark_id, solver_id, test_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		(SELECT id FROM solvers WHERE name = ?),
		(SELECT id FROM test_sets WHERE name = ?)
	)`,
}

// NewDuckDB opens a Direct/DuckDB adapter (spec §3, §4.4).
func NewDuckDB(path string) (Adapter, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}
	db.SetMaxOpenConns(1)
	return newDirect(db, duckdbDDL)
}
