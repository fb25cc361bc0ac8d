package ingest

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
)

// Exec invokes an external parser process per result (spec §4.5).
// The solver's stdout is piped into the ingestor's stdin; its own
// stdout must be a parseable metrics document.
type Exec struct {
	Executable string
	Params     []string
	Timeout    time.Duration
}

func NewExec(executable string, params []string, timeoutMS int64) *Exec {
	return &Exec{Executable: executable, Params: params, Timeout: time.Duration(timeoutMS) * time.Millisecond}
}

func (e *Exec) Ingest(ctx context.Context, result RunResult) (cmn.Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.Executable, e.Params...)
	cmd.Stdin = bytes.NewReader(result.Stdout)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return cmn.Metrics{}, &cmn.ErrChildTimeout{Exec: e.Executable}
	}
	if err != nil {
		// Non-zero exit: still read stdout, log stderr at debug, and
		// continue — the ingestor's own output is what's trusted
		// (spec §4.5, step 4).
		nlog.Debugf("ingestor %q exited non-zero: %v; stderr: %s", e.Executable, err, stderr.String())
	}

	m, perr := parseMetricsDoc(stdout.Bytes())
	if perr != nil {
		return cmn.Metrics{}, &cmn.ErrDeserializeIngestor{Ingestor: e.Executable, Cause: perr}
	}
	return m, nil
}
