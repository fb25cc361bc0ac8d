// Package database implements the storage adapter stack (spec §4.4,
// C4): a uniform insertion contract, a concrete backend per supported
// database, and the Batched/Delayed buffering wrappers composed over
// any of them.
package database

import (
	"context"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/pkg/errors"
)

// DeferredID is returned by Store on buffering wrappers (Batched,
// Delayed), whose inserts are not assigned an id at call time (spec
// §4.4: "returns the assigned id or a sentinel for deferred variants").
const DeferredID int64 = -1

// Adapter is the uniform contract every storage backend and wrapper
// implements (spec §4.4).
type Adapter interface {
	// Init applies schema idempotently, resolves or creates the
	// benchmark row, and resolves/creates solver and test-set rows,
	// recording their ids into cctx.
	Init(ctx context.Context, cfg *cmn.Config, cctx *cmn.Context, benchmark, comment string) error

	// Store inserts one record, returning its assigned id, or
	// DeferredID on buffering wrappers.
	Store(ctx context.Context, bundle cmn.MetricsBundle) (int64, error)

	// StoreIter bulk-inserts in a single transaction. Never called on
	// a buffered wrapper itself — only on a Direct adapter, by a
	// wrapper's flush (spec §4.4, "Wrapper rules").
	StoreIter(ctx context.Context, bundles []cmn.MetricsBundle) error

	// Close flushes buffers, commits, and releases the underlying
	// handle.
	Close(ctx context.Context) error
}

// Load opens the configured connection and composes any configured
// wrappers around it (spec §4.4: "for optional wrappers, compose
// around a base adapter").
//
// Per spec §4.4's wrapper rules, at most one of Batched/Delayed is
// active; if both are configured, Delayed takes precedence and a
// warning is logged (this repo's resolution of the spec's "config
// warns if both are set" open point).
func Load(cfg *cmn.DatabaseConfig) (Adapter, error) {
	base, err := loadDirect(&cfg.Connection)
	if err != nil {
		return nil, errors.Wrap(err, "load direct adapter")
	}

	switch {
	case cfg.Delayed && cfg.Batched != nil:
		nlog.Warningln("database: both batched and delayed configured; delayed takes precedence")
		return NewDelayed(base), nil
	case cfg.Delayed:
		return NewDelayed(base), nil
	case cfg.Batched != nil:
		return NewBatched(base, cfg.Batched.Size, cfg.Batched.TimeoutMS)
	default:
		return base, nil
	}
}

func loadDirect(cfg *cmn.ConnectionConfig) (Adapter, error) {
	variant, err := cfg.Variant()
	if err != nil {
		return nil, err
	}
	switch variant {
	case "sqlite":
		return NewSQLite(cfg.SQLite.Path)
	case "duckdb":
		return NewDuckDB(cfg.DuckDB.Path)
	case "clickhouse":
		return NewClickHouse(cfg.ClickHouse)
	default:
		return nil, errors.Errorf("database.connection: unhandled variant %q", variant)
	}
}
