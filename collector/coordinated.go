package collector

import "github.com/SAT-solver-ANalyzer/SATAn/cmn"

// Coordinated is a reserved stub for a future single-coordinator
// (MPI-style) collector (spec §4.3, §4.7, §9 "Open questions": "its
// protocol is not defined by this specification"). Constructing one
// always fails until that protocol exists.
func NewCoordinated() (Collector, error) {
	return nil, &cmn.ErrNotImplemented{What: "coordinated collector"}
}
