package cmn

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// FairMutex is a mutual-exclusion lock that wakes waiters in roughly
// FIFO order, unlike sync.Mutex's barging behavior. It backs the
// direct storage adapters, the delayed wrapper and cmn.Context (spec
// §5: "fair lock, short critical sections"); the batched wrapper
// buffers through microbatch instead.
//
// Built on a weighted semaphore of weight 1: Acquire queues behind
// any already-blocked Acquire calls, which gives waiters first-in
// service instead of letting a fast-spinning goroutine repeatedly
// barge in ahead of others during high-contention bursts.
//
// The zero value is a valid, unlocked FairMutex: the semaphore is
// created lazily on first use, so FairMutex can be embedded as a
// plain struct field without an explicit constructor call.
type FairMutex struct {
	once sync.Once
	sem  *semaphore.Weighted
}

func NewFairMutex() *FairMutex {
	m := &FairMutex{}
	m.init()
	return m
}

func (m *FairMutex) init() {
	m.once.Do(func() {
		m.sem = semaphore.NewWeighted(1)
	})
}

func (m *FairMutex) Lock() {
	m.init()
	// background: a FairMutex is never held across a cancelable
	// operation, so an uncancelable acquire is correct here.
	_ = m.sem.Acquire(context.Background(), 1)
}

func (m *FairMutex) Unlock() {
	m.sem.Release(1)
}
