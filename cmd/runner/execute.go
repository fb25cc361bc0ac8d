package main

import (
	"context"
	"fmt"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/SAT-solver-ANalyzer/SATAn/collector"
	"github.com/SAT-solver-ANalyzer/SATAn/database"
	"github.com/SAT-solver-ANalyzer/SATAn/executor"
	"github.com/SAT-solver-ANalyzer/SATAn/preflight"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

var executeCommand = cli.Command{
	Name:  "execute",
	Usage: "run a benchmark against every configured test set",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "path to the YAML config document", Required: true},
		cli.StringFlag{Name: "benchmark", Usage: "benchmark id; a random one is generated if omitted"},
		cli.StringFlag{Name: "comment", Usage: "free-text comment recorded with the benchmark row"},
		cli.StringSliceFlag{Name: "solver", Usage: "restrict the run to these solvers (repeatable)"},
		cli.StringSliceFlag{Name: "test", Usage: "restrict the run to these test sets (repeatable)"},
		cli.BoolFlag{Name: "dry-run", Usage: "run preflight and print the resolved task count without spawning any process"},
	},
	Action: runExecute,
}

func runExecute(c *cli.Context) error {
	cfg, err := cmn.LoadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	res := preflight.Check(cfg)
	if !res.OK() {
		return errors.New(res.Error())
	}

	benchmark := c.String("benchmark")
	if benchmark == "" {
		benchmark = uuid.NewString()
	}

	testFilter := []string(c.StringSlice("test"))
	solverFilter := []string(c.StringSlice("solver"))

	names := make([]string, 0, len(cfg.Tests))
	for name := range cfg.Tests {
		if len(testFilter) == 0 || contains(testFilter, name) {
			names = append(names, name)
		}
	}

	if c.Bool("dry-run") {
		return runDryRun(cfg, names, solverFilter)
	}

	adapter, err := database.Load(&cfg.Database)
	if err != nil {
		return errors.Wrap(err, "open database")
	}

	cctx := cmn.NewContext()
	ctx := context.Background()
	if err := adapter.Init(ctx, cfg, cctx, benchmark, c.String("comment")); err != nil {
		return errors.Wrap(err, "initialize database")
	}

	variant, err := cfg.Executor.Variant()
	if err != nil {
		return errors.Wrap(err, "resolve executor variant")
	}

	switch variant {
	case "local":
		local, err := executor.NewLocal(cfg, adapter, cctx, nil)
		if err != nil {
			return errors.Wrap(err, "construct local executor")
		}
		collectors, err := buildCollectors(cfg, names)
		if err != nil {
			return errors.Wrap(err, "build collectors")
		}
		return local.Run(ctx, collectors, testFilter, solverFilter)

	case "distributed":
		local, err := executor.NewLocal(cfg, adapter, cctx, nil)
		if err != nil {
			return errors.Wrap(err, "construct local executor")
		}
		dist, err := executor.NewDistributed(local, *cfg.Executor.Distributed)
		if err != nil {
			return errors.Wrap(err, "construct distributed executor")
		}
		collectors, err := dist.BuildCollectors(*cfg.Executor.Distributed, cfg.Tests, names)
		if err != nil {
			return errors.Wrap(err, "build distributed collectors")
		}
		return dist.Run(ctx, collectors, testFilter, solverFilter)

	default:
		return errors.Errorf("executor: unhandled variant %q", variant)
	}
}

func runDryRun(cfg *cmn.Config, names, solverFilter []string) error {
	collectors, err := buildCollectors(cfg, names)
	if err != nil {
		return errors.Wrap(err, "build collectors")
	}
	total := 0
	for _, name := range names {
		tc := cfg.Tests[name]
		solvers := tc.Solvers
		if len(solverFilter) > 0 {
			var filtered []string
			for _, s := range solvers {
				if contains(solverFilter, s) {
					filtered = append(filtered, s)
				}
			}
			solvers = filtered
		}
		iterations := tc.Iterations
		if iterations <= 0 {
			iterations = 1
		}
		n := collectors[name].SizeHint() * len(solvers) * iterations
		total += n
		nlog.Infof("dry-run: test set %q: %d tasks", name, n)
	}
	fmt.Printf("dry-run: %d total tasks across %d test sets\n", total, len(names))
	return nil
}

func buildCollectors(cfg *cmn.Config, names []string) (map[string]collector.Collector, error) {
	return executor.BuildCollectors(cfg.Tests, names)
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
