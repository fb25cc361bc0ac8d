package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var sqliteDDL = ddl{
	name:           "sqlite",
	supportsAutoID: true,
	createBenchmarks: `CREATE TABLE IF NOT EXISTS benchmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		comment TEXT
	)`,
	createSolvers: `CREATE TABLE IF NOT EXISTS solvers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		exec TEXT NOT NULL,
		params TEXT NOT NULL,
		ingest TEXT NOT NULL
	)`,
	createTestSets: `CREATE TABLE IF NOT EXISTS test_sets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		timeout_ms INTEGER NOT NULL,
		params TEXT NOT NULL
	)`,
	createRuns: `CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		runtime INTEGER,
		parse_time INTEGER,
		satisfiable INTEGER,
		memory_usage INTEGER,
		restarts INTEGER,
		conflicts INTEGER,
		propagations INTEGER,
		conflict_literals INTEGER,
		number_of_variables INTEGER,
		number_of_clauses INTEGER,
		target TEXT,
		solver_id INTEGER,
		test_id INTEGER,
		benchmark_id INTEGER
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

// NewSQLite opens a Direct/SQLite adapter (spec §3, §4.4).
func NewSQLite(path string) (Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// A file-backed SQLite connection is single-writer regardless;
	// pinning pool size to 1 avoids SQLITE_BUSY under our own
	// FairMutex serialization.
	db.SetMaxOpenConns(1)
	return newDirect(db, sqliteDDL)
}
