package executor

import (
	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/collector"
	"github.com/SAT-solver-ANalyzer/SATAn/ingest"
	"github.com/pkg/errors"
)

// buildIngestors resolves every configured ingestor into a concrete
// ingest.Ingestor (spec §4.5, §6 "ingestor invocation").
func buildIngestors(cfg map[string]cmn.IngestConfig) (map[string]ingest.Ingestor, error) {
	out := make(map[string]ingest.Ingestor, len(cfg))
	for name, ic := range cfg {
		variant, err := ic.Variant()
		if err != nil {
			return nil, errors.Wrapf(err, "ingest %q", name)
		}
		switch variant {
		case "null":
			out[name] = ingest.Null{}
		case "exec":
			out[name] = ingest.NewExec(ic.Exec.Executable, ic.Exec.Params, ic.Exec.TimeoutMS)
		default:
			return nil, errors.Errorf("ingest %q: unhandled variant %q", name, variant)
		}
	}
	return out, nil
}

// BuildCollector constructs the Collector tree for one named test set
// (spec §4.3). tests is the full test-set map, needed to resolve
// Grouped references by name.
func BuildCollector(name string, tests map[string]cmn.TestSetConfig) (collector.Collector, error) {
	return buildCollectorVisiting(name, tests, map[string]bool{})
}

// BuildCollectors constructs one Collector per named test set (spec
// §4.3); the cmd/runner CLI and the Distributed executor both use
// this instead of calling BuildCollector in a loop themselves.
func BuildCollectors(tests map[string]cmn.TestSetConfig, names []string) (map[string]collector.Collector, error) {
	out := make(map[string]collector.Collector, len(names))
	for _, name := range names {
		c, err := BuildCollector(name, tests)
		if err != nil {
			return nil, err
		}
		out[name] = c
	}
	return out, nil
}

func buildCollector(name string, tests map[string]cmn.TestSetConfig) (collector.Collector, error) {
	return BuildCollector(name, tests)
}

func buildCollectorVisiting(name string, tests map[string]cmn.TestSetConfig, visiting map[string]bool) (collector.Collector, error) {
	tc, ok := tests[name]
	if !ok {
		return nil, errors.Errorf("collector: unknown test set %q", name)
	}
	if visiting[name] {
		return nil, errors.Errorf("collector: cycle detected involving test set %q", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	variant, err := tc.Collector.Variant()
	if err != nil {
		return nil, errors.Wrapf(err, "test set %q", name)
	}

	switch variant {
	case "glob":
		g := tc.Collector.Glob
		roots := append([]string{}, g.Paths...)
		if g.Path != "" {
			roots = append(roots, g.Path)
		}
		return collector.NewGlob(roots, g.Glob)

	case "grouped":
		var joined collector.Collector
		for _, child := range tc.Collector.Grouped.Collectors {
			c, err := buildCollectorVisiting(child, tests, visiting)
			if err != nil {
				return nil, err
			}
			if joined == nil {
				joined = c
			} else {
				joined = collector.Join(joined, c)
			}
		}
		if joined == nil {
			return collector.NewGrouped(), nil
		}
		return joined, nil

	case "gdb":
		g := tc.Collector.GDB
		return collector.NewGDB(g.Server, g.TmpDir), nil

	default:
		return nil, errors.Errorf("test set %q: unhandled collector variant %q", name, variant)
	}
}
