package executor

import (
	"context"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/SAT-solver-ANalyzer/SATAn/collector"
	"github.com/pkg/errors"
)

// Distributed is the C7 executor: a thin wrapper that prepares
// collectors for multi-host execution, then delegates unchanged to a
// Local executor (spec §4.7: "the Local executor then operates
// unchanged").
type Distributed struct {
	local *Local
}

// NewDistributed wraps local. cfg.Executor.Distributed must name a
// synchronization variant; FileSystem is implemented, Coordinated is
// the reserved stub (spec §4.7).
func NewDistributed(local *Local, cfg cmn.DistributedExecutorConfig) (*Distributed, error) {
	variant, err := cfg.Synchronization.Variant()
	if err != nil {
		return nil, errors.Wrap(err, "distributed executor")
	}
	switch variant {
	case "filesystem", "coordinated":
		return &Distributed{local: local}, nil
	default:
		return nil, errors.Errorf("distributed executor: unhandled variant %q", variant)
	}
}

// BuildCollectors constructs one Collector per named test set,
// wrapping every one in FS-claim when sync is FileSystem (spec §4.7:
// "the collectors for all test sets are wrapped in FS-claim").
// Coordinated mode has no defined protocol yet and always fails
// (spec §9, open question).
func (d *Distributed) BuildCollectors(cfg cmn.DistributedExecutorConfig, tests map[string]cmn.TestSetConfig, names []string) (map[string]collector.Collector, error) {
	variant, err := cfg.Synchronization.Variant()
	if err != nil {
		return nil, err
	}

	base, err := BuildCollectors(tests, names)
	if err != nil {
		return nil, err
	}
	if variant == "coordinated" {
		if _, err := collector.NewCoordinated(); err != nil {
			return nil, err
		}
	}

	out := make(map[string]collector.Collector, len(base))
	for name, c := range base {
		if variant == "filesystem" {
			out[name] = collector.NewFSClaim(c)
		} else {
			out[name] = c
		}
	}
	return out, nil
}

// Run delegates to the wrapped Local executor unchanged.
func (d *Distributed) Run(ctx context.Context, collectors map[string]collector.Collector, testFilter, solverFilter []string) error {
	nlog.Infof("executor: distributed run starting (delegating to local executor)")
	return d.local.Run(ctx, collectors, testFilter, solverFilter)
}
