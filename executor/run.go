package executor

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/ingest"
)

// spawnResult is the outcome of one solver invocation.
type spawnResult struct {
	result  ingest.RunResult
	timeout bool
}

// spawnSolver invokes the solver executable per spec §4.6 step 2-3:
// args are solver.params ++ set.params ++ [targetPath]; stdout/stderr
// are piped and captured in full; the wait is bounded by timeoutMS.
//
// Returns (result, false, nil) on a normal exit (zero or non-zero —
// the ingestor interprets exit status, spec §7), (zero-value, true,
// nil) on timeout, and (zero-value, false, err) only when the child
// could not be started at all.
func spawnSolver(ctx context.Context, solver cmn.SolverConfig, testParams []string, targetPath string, timeoutMS int64) (spawnResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
	defer cancel()

	args := make([]string, 0, len(solver.Params)+len(testParams)+1)
	args = append(args, solver.Params...)
	args = append(args, testParams...)
	args = append(args, targetPath)

	cmd := exec.CommandContext(runCtx, solver.Exec, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return spawnResult{}, err
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return spawnResult{timeout: true}, nil
	}

	exitCode := -1 // sentinel when ProcessState is unavailable or exit status unknown
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	_ = waitErr // a non-zero exit is a normal completion (spec §7): the ingestor interprets it

	return spawnResult{
		result: ingest.RunResult{
			RuntimeMS: elapsed.Milliseconds(),
			Stdout:    stdout.Bytes(),
			Stderr:    stderr.Bytes(),
			ExitCode:  exitCode,
		},
	}, nil
}
