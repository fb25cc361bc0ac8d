// Package ingest implements the post-run hand-off to an external
// parser process (spec §4.5, C5): Exec, which pipes a solver's stdout
// through a configured parser executable, and Null, the identity
// ingestor that parses the solver's own stdout directly.
package ingest

import (
	"context"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"gopkg.in/yaml.v3"
)

// RunResult is what the executor hands an Ingestor after a solver
// process exits or times out.
type RunResult struct {
	RuntimeMS int64
	Stdout    []byte
	Stderr    []byte
	ExitCode  int
}

// Ingestor turns a solver run's captured output into Metrics.
type Ingestor interface {
	Ingest(ctx context.Context, result RunResult) (cmn.Metrics, error)
}

// metricsDoc mirrors cmn.Metrics field-for-field for YAML decoding
// (spec §6, "Metrics document: a structured mapping whose keys
// exactly match the Metrics fields").
type metricsDoc struct {
	RuntimeMS         int64 `yaml:"runtime_ms"`
	ParseTimeMS       int64 `yaml:"parse_time_ms"`
	Satisfiable       int8  `yaml:"satisfiable"`
	MemoryUsageKB     int64 `yaml:"memory_usage_kb"`
	Restarts          int64 `yaml:"restarts"`
	Conflicts         int64 `yaml:"conflicts"`
	Propagations      int64 `yaml:"propagations"`
	ConflictLiterals  int64 `yaml:"conflict_literals"`
	NumberOfVariables int64 `yaml:"number_of_variables"`
	NumberOfClauses   int64 `yaml:"number_of_clauses"`
}

func parseMetricsDoc(data []byte) (cmn.Metrics, error) {
	var doc metricsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return cmn.Metrics{}, err
	}
	return cmn.Metrics{
		RuntimeMS:         doc.RuntimeMS,
		ParseTimeMS:       doc.ParseTimeMS,
		Satisfiable:       cmn.SatResult(doc.Satisfiable),
		MemoryUsageKB:     doc.MemoryUsageKB,
		Restarts:          doc.Restarts,
		Conflicts:         doc.Conflicts,
		Propagations:      doc.Propagations,
		ConflictLiterals:  doc.ConflictLiterals,
		NumberOfVariables: doc.NumberOfVariables,
		NumberOfClauses:   doc.NumberOfClauses,
	}, nil
}
