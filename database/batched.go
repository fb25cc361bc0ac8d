package database

import (
	"context"
	"time"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
	microbatch "github.com/joeycumines/go-microbatch"
)

// batched wraps an Adapter, grouping Store calls into fixed-size
// batches flushed through the inner adapter's StoreIter (spec §4.4,
// "Batched"). Submission is fire-and-forget: Store returns DeferredID
// immediately, without waiting for the batch to flush.
type batched struct {
	inner   Adapter
	batcher *microbatch.Batcher[cmn.MetricsBundle]
}

// NewBatched composes a Batched wrapper around base. size is the
// maximum number of records per batch; timeoutMS, if positive, also
// flushes an incomplete batch after that many milliseconds (spec
// §4.4). A size <= 0 disables size-based flushing. Neither
// cmn.LoadConfig nor preflight validates size or timeout, so a
// BatchedConfig with size <= 0 and no timeout reaches microbatch as is.
func NewBatched(base Adapter, size, timeoutMS int) (Adapter, error) {
	b := &batched{inner: base}

	cfg := &microbatch.BatcherConfig{
		MaxSize:        size,
		MaxConcurrency: 1,
	}
	if timeoutMS > 0 {
		cfg.FlushInterval = time.Duration(timeoutMS) * time.Millisecond
	} else {
		cfg.FlushInterval = -1 // disable time-based flush; size-based only
	}

	b.batcher = microbatch.NewBatcher(cfg, b.process)
	return b, nil
}

func (b *batched) process(ctx context.Context, jobs []cmn.MetricsBundle) error {
	return b.inner.StoreIter(ctx, jobs)
}

func (b *batched) Init(ctx context.Context, cfg *cmn.Config, cctx *cmn.Context, benchmark, comment string) error {
	return b.inner.Init(ctx, cfg, cctx, benchmark, comment)
}

// Store enqueues bundle without waiting for its batch to flush,
// returning DeferredID (spec §4.4: "returns a sentinel for deferred
// variants").
func (b *batched) Store(ctx context.Context, bundle cmn.MetricsBundle) (int64, error) {
	if _, err := b.batcher.Submit(ctx, bundle); err != nil {
		return 0, err
	}
	return DeferredID, nil
}

// StoreIter is never called on a Batched wrapper itself (spec §4.4);
// forwarded straight to the inner adapter for completeness.
func (b *batched) StoreIter(ctx context.Context, bundles []cmn.MetricsBundle) error {
	return b.inner.StoreIter(ctx, bundles)
}

func (b *batched) Close(ctx context.Context) error {
	if err := b.batcher.Shutdown(ctx); err != nil {
		return err
	}
	return b.inner.Close(ctx)
}
