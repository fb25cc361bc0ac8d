package database

import (
	"context"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn"
)

// delayed wraps an Adapter, buffering every Store call in memory and
// flushing the whole run through the inner adapter's StoreIter only on
// Close (spec §4.4, "Delayed"). Unlike Batched, there is no size or
// time bound: the buffer grows for the lifetime of the benchmark.
type delayed struct {
	inner Adapter
	mu    cmn.FairMutex
	buf   []cmn.MetricsBundle
}

// NewDelayed composes a Delayed wrapper around base.
func NewDelayed(base Adapter) Adapter {
	return &delayed{inner: base}
}

func (d *delayed) Init(ctx context.Context, cfg *cmn.Config, cctx *cmn.Context, benchmark, comment string) error {
	return d.inner.Init(ctx, cfg, cctx, benchmark, comment)
}

// Store buffers bundle and returns DeferredID immediately (spec
// §4.4).
func (d *delayed) Store(ctx context.Context, bundle cmn.MetricsBundle) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = append(d.buf, bundle)
	return DeferredID, nil
}

// StoreIter is never called on a Delayed wrapper itself (spec §4.4);
// forwarded straight to the inner adapter for completeness.
func (d *delayed) StoreIter(ctx context.Context, bundles []cmn.MetricsBundle) error {
	return d.inner.StoreIter(ctx, bundles)
}

// Close flushes the entire buffered run through the inner adapter
// before closing it.
func (d *delayed) Close(ctx context.Context) error {
	d.mu.Lock()
	buf := d.buf
	d.buf = nil
	d.mu.Unlock()

	if len(buf) > 0 {
		if err := d.inner.StoreIter(ctx, buf); err != nil {
			return err
		}
	}
	return d.inner.Close(ctx)
}
