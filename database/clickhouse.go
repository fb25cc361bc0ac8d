package database

import (
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	lz4 "github.com/pierrec/lz4/v3"
	"github.com/pkg/errors"
)

var clickhouseDDL = ddl{
	name:           "clickhouse",
	supportsAutoID: false, // no native autoincrement in a columnar store
	createBenchmarks: `CREATE TABLE IF NOT EXISTS benchmarks (
		id Int64,
		name String,
		comment String
	) ENGINE = MergeTree ORDER BY id`,
	createSolvers: `CREATE TABLE IF NOT EXISTS solvers (
		id Int64,
		name String,
		exec String,
		params String,
		ingest String
	) ENGINE = MergeTree ORDER BY id`,
	createTestSets: `CREATE TABLE IF NOT EXISTS test_sets (
		id Int64,
		name String,
		timeout_ms Int64,
		params String
	) ENGINE = MergeTree ORDER BY id`,
	createRuns: `CREATE TABLE IF NOT EXISTS runs (
		id Int64,
		runtime Nullable(Int64),
		parse_time Int64,
		satisfiable Int8,
		memory_usage Int64,
		restarts Int64,
		conflicts Int64,
		propagations Int64,
		conflict_literals Int64,
		number_of_variables Int64,
		number_of_clauses Int64,
		target String,
		solver_id Int64,
		test_id Int64,
		benchmark_id Int64
	) ENGINE = MergeTree ORDER BY id`,
	insertRun: `INSERT INTO runs (
		runtime, parse_time, satisfiable, memory_usage, restarts, conflicts,
		propagations, conflict_literals, number_of_variables, number_of_clauses,
		target, benchmark_id, solver_id, test_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
		(SELECT id FROM solvers WHERE name = ? LIMIT 1),
		(SELECT id FROM test_sets WHERE name = ? LIMIT 1)
	)`,
}

// NewClickHouse opens a Direct/ClickHouse adapter (spec §3, §4.4).
// User/password must both be set or both absent (enforced at
// preflight, not here).
func NewClickHouse(cfg *cmn.ClickHouseConfig) (Adapter, error) {
	opts := &clickhouse.Options{
		Addr: []string{cfg.Server},
		Auth: clickhouse.Auth{
			Database: cfg.DB,
			Username: cfg.User,
			Password: cfg.Password,
		},
	}
	if cfg.LZ4 || cfg.LZ4HC {
		// clickhouse-go's native LZ4 codec is pierrec/lz4 under the
		// hood; lz4hc just selects its higher compression level.
		level := lz4.Fast
		if cfg.LZ4HC {
			level = lz4.Level9
		}
		opts.Compression = &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
			Level:  int(level),
		}
	}

	db := clickhouse.OpenDB(opts)
	if db == nil {
		return nil, errors.New(fmt.Sprintf("clickhouse: failed to open %q", cfg.Server))
	}
	return newDirect(db, clickhouseDDL)
}
