// Package preflight implements C8: validating and normalizing a
// parsed config before any execution begins (spec §4.8). All checks
// are accumulated before reporting failure, to minimize the
// edit-rerun turnaround for a misconfigured YAML document.
package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/cos"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
)

// Result collects every accumulated error. A non-empty Result is a
// failure; format it for the user via Error().
type Result struct {
	Errors []string
}

func (r *Result) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) OK() bool { return len(r.Errors) == 0 }

func (r *Result) Error() string {
	return "preflight failed:\n  " + strings.Join(r.Errors, "\n  ")
}

// Check runs every validation in spec §4.8 against cfg, mutating it
// in place for the normalizations (path/paths merge, solvers
// fallback, hostname-prefixed DB path) and returning the accumulated
// result.
func Check(cfg *cmn.Config) *Result {
	res := &Result{}

	checkSolversNonEmpty(cfg, res)
	checkIngestors(cfg, res)
	checkSolverExecutables(cfg, res)
	checkGroupedReferences(cfg, res)
	normalizeGlobPaths(cfg)
	checkTimeouts(cfg, res)
	normalizeSolverFallback(cfg, res)
	normalizeDistributedDBPath(cfg, res)
	checkClickHouseAuth(cfg, res)

	return res
}

// checkSolversNonEmpty: "at least one solver must be defined."
func checkSolversNonEmpty(cfg *cmn.Config, res *Result) {
	if len(cfg.Solvers) == 0 {
		res.fail("no solvers defined")
	}
}

// checkIngestors: "every exec-ingestor's executable must exist and
// have any execute bit set"; "every solver's ingest must reference a
// defined ingestor."
func checkIngestors(cfg *cmn.Config, res *Result) {
	for name, ic := range cfg.Ingest {
		variant, err := ic.Variant()
		if err != nil {
			res.fail("ingest %q: %v", name, err)
			continue
		}
		if variant == "exec" {
			if !cos.Exists(ic.Exec.Executable) {
				res.fail("ingest %q: executable %q does not exist", name, ic.Exec.Executable)
			} else if !cos.IsExecutable(ic.Exec.Executable) {
				res.fail("ingest %q: %q is not executable", name, ic.Exec.Executable)
			}
		}
	}
	for name, sc := range cfg.Solvers {
		if _, ok := cfg.Ingest[sc.Ingest]; !ok {
			res.fail("solver %q: ingest %q is not defined", name, sc.Ingest)
		}
	}
}

// checkSolverExecutables: "every solver's exec must exist and have
// any execute bit set."
func checkSolverExecutables(cfg *cmn.Config, res *Result) {
	for name, sc := range cfg.Solvers {
		if !cos.Exists(sc.Exec) {
			res.fail("solver %q: executable %q does not exist", name, sc.Exec)
		} else if !cos.IsExecutable(sc.Exec) {
			res.fail("solver %q: %q is not executable", name, sc.Exec)
		}
	}
}

// checkGroupedReferences: "every Grouped collector reference must
// name a defined test set."
func checkGroupedReferences(cfg *cmn.Config, res *Result) {
	for name, tc := range cfg.Tests {
		variant, err := tc.Collector.Variant()
		if err != nil {
			res.fail("test set %q: %v", name, err)
			continue
		}
		if variant != "grouped" {
			continue
		}
		for _, ref := range tc.Collector.Grouped.Collectors {
			if _, ok := cfg.Tests[ref]; !ok {
				res.fail("test set %q: grouped collector references unknown test set %q", name, ref)
			}
		}
	}
}

// normalizeGlobPaths: "if path and paths are both given, path is
// merged into paths and a warning is emitted." A path given without
// paths is moved into paths without a warning.
func normalizeGlobPaths(cfg *cmn.Config) {
	for name, tc := range cfg.Tests {
		if tc.Collector.Glob == nil {
			continue
		}
		g := tc.Collector.Glob
		if g.Path != "" {
			if len(g.Paths) > 0 {
				nlog.Warningf("test set %q: both path and paths given; merging path into paths", name)
			}
			g.Paths = append(g.Paths, g.Path)
			g.Path = ""
		}
		cfg.Tests[name] = tc
	}
}

// checkTimeouts: "timeout == 0 is rejected."
func checkTimeouts(cfg *cmn.Config, res *Result) {
	for name, tc := range cfg.Tests {
		if tc.TimeoutMS == 0 {
			res.fail("test set %q: timeout_ms == 0 is rejected", name)
		}
	}
}

// normalizeSolverFallback: "empty solvers on a test set falls back to
// all solvers with a warning."
func normalizeSolverFallback(cfg *cmn.Config, res *Result) {
	for name, tc := range cfg.Tests {
		if len(tc.Solvers) > 0 {
			continue
		}
		if len(cfg.Solvers) == 0 {
			continue // already reported by checkSolversNonEmpty
		}
		nlog.Warningf("test set %q: no solvers listed; falling back to all %d configured solvers", name, len(cfg.Solvers))
		all := make([]string, 0, len(cfg.Solvers))
		for solverName := range cfg.Solvers {
			all = append(all, solverName)
		}
		tc.Solvers = all
		cfg.Tests[name] = tc
	}
}

// normalizeDistributedDBPath: "distributed + filesystem sync:
// prepend hostname to the db file path."
func normalizeDistributedDBPath(cfg *cmn.Config, res *Result) {
	if cfg.Executor.Distributed == nil {
		return
	}
	variant, err := cfg.Executor.Distributed.Synchronization.Variant()
	if err != nil {
		res.fail("executor.distributed.synchronization: %v", err)
		return
	}
	if variant != "filesystem" {
		return
	}

	connVariant, err := cfg.Database.Connection.Variant()
	if err != nil {
		res.fail("database.connection: %v", err)
		return
	}

	hostname, err := hostnamer()
	if err != nil {
		res.fail("resolve hostname for distributed db path: %v", err)
		return
	}

	switch connVariant {
	case "sqlite":
		cfg.Database.Connection.SQLite.Path = prefixFileName(hostname, cfg.Database.Connection.SQLite.Path)
	case "duckdb":
		cfg.Database.Connection.DuckDB.Path = prefixFileName(hostname, cfg.Database.Connection.DuckDB.Path)
	case "clickhouse":
		// ClickHouse is a shared server, not a file: nothing to
		// prepend. Still a filesystem-sync-valid combination (spec
		// §4.7 only mentions file-backed stores).
	}
}

// prefixFileName prepends hostname to only the file's base name,
// preserving any directory component of path (e.g.
// "/shared/bench.db" -> "/shared/host_bench.db", not
// "host_/shared/bench.db").
func prefixFileName(hostname, path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, hostname+"_"+base)
}

// checkClickHouseAuth: "ClickHouse: user and password must both be
// set or both be absent."
func checkClickHouseAuth(cfg *cmn.Config, res *Result) {
	ch := cfg.Database.Connection.ClickHouse
	if ch == nil {
		return
	}
	if (ch.User == "") != (ch.Password == "") {
		res.fail("database.connection.clickhouse: user and password must both be set or both be absent")
	}
}

// hostnamer is overridable in tests.
var hostnamer = osHostname
