package ingest

import (
	"context"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/pkg/errors"
)

// Null is the identity ingestor: it parses the solver's own stdout
// directly as a metrics document (spec §4.5).
type Null struct{}

func (Null) Ingest(_ context.Context, result RunResult) (cmn.Metrics, error) {
	m, err := parseMetricsDoc(result.Stdout)
	if err != nil {
		return cmn.Metrics{}, errors.Wrap(&cmn.ErrDeserializeIngestor{Ingestor: "null", Cause: err}, "parse solver stdout")
	}
	return m, nil
}
