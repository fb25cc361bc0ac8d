// Command runner is the CLI entry point for the benchmark harness
// (spec §6, "CLI surface"): execute, clean, and the reserved merge
// subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "runner"
	app.Usage = "run SAT solver benchmarks against a corpus of test sets"
	app.Commands = []cli.Command{
		executeCommand,
		cleanCommand,
		mergeCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		nlog.Errorf("runner: %v", err)
		os.Exit(1)
	}
}
