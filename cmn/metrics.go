package cmn

// SatResult is the tri-state result of a solver run.
type SatResult int8

const (
	Unsatisfiable SatResult = -1
	Unknown       SatResult = 0
	Sat           SatResult = 1
)

// Metrics is the fixed record produced by an Ingestor for a single run.
//
// Runtime == 0 is the failure/timeout sentinel at the in-memory level;
// storage adapters translate that to SQL NULL (see runtimeValue in
// database/direct.go)
// so that "not measured" is distinguishable from "measured as zero".
type Metrics struct {
	RuntimeMS         int64
	ParseTimeMS       int64
	Satisfiable       SatResult
	MemoryUsageKB     int64
	Restarts          int64
	Conflicts         int64
	Propagations      int64
	ConflictLiterals  int64
	NumberOfVariables int64
	NumberOfClauses   int64
}

// Failed returns the sentinel bundle recorded when a run times out:
// all-zero metrics with Unknown satisfiability (spec §4.6, "On timeout").
func Failed() Metrics {
	return Metrics{Satisfiable: Unknown}
}

// MetricsBundle is the unit of insertion: metrics plus enough context
// to resolve the owning solver/test-set/benchmark rows at store time.
type MetricsBundle struct {
	Metrics      Metrics
	SolverName   string
	TestSetName  string
	TargetPath   string
}
