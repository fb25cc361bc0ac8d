package executor

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/SAT-solver-ANalyzer/SATAn/cmn/nlog"
	"golang.org/x/sys/unix"
)

// pool is the process-global, fixed-size worker pool spec §5 requires
// ("constructed once; attempting to reconfigure after construction is
// fatal"). Workers pull tasks off tasks until it is closed.
type pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	threads int
	pinned  bool
}

var (
	poolOnce sync.Once
	poolInst *pool
)

// newPool resolves threads (0 -> runtime.NumCPU(), with a warning)
// and starts that many workers, optionally pinned to a distinct
// logical CPU each (spec §4.6, "Initialization"). Only the first call
// across the process succeeds; every subsequent call panics, matching
// the one-shot global pool construction spec §5 mandates.
func newPool(threads int, pinned bool) *pool {
	var p *pool
	constructed := false
	poolOnce.Do(func() {
		if threads <= 0 {
			nlog.Warningf("executor: thread count %d corrected to NumCPU=%d", threads, runtime.NumCPU())
			threads = runtime.NumCPU()
		}
		p = &pool{
			tasks:   make(chan func()),
			threads: threads,
			pinned:  pinned,
		}
		p.start()
		poolInst = p
		constructed = true
	})
	if !constructed {
		panic(fmt.Sprintf("executor: worker pool already constructed (threads=%d, pinned=%v); reconfiguration is fatal", poolInst.threads, poolInst.pinned))
	}
	return p
}

func (p *pool) start() {
	p.wg.Add(p.threads)
	for i := 0; i < p.threads; i++ {
		cpu := p.threads - 1 - i // decrements from threads-1 downward (spec §4.6)
		go p.runWorker(i, cpu)
	}
}

func (p *pool) runWorker(id, cpu int) {
	defer p.wg.Done()

	if p.pinned {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := pinToCPU(cpu); err != nil {
			nlog.Warningf("executor: worker %d: pin to cpu %d failed: %v", id, cpu, err)
		} else {
			nlog.Infof("executor: worker %d pinned to cpu %d", id, cpu)
		}
	}

	for task := range p.tasks {
		task()
	}
}

// pinToCPU binds the calling OS thread to a single logical CPU via
// sched_setaffinity. Must be called after runtime.LockOSThread so the
// affinity mask sticks to the goroutine's carrier thread.
func pinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}

// submit blocks until a worker picks up fn. Callers must not submit
// after close.
func (p *pool) submit(fn func()) {
	p.tasks <- fn
}

// close stops accepting new tasks and waits for in-flight ones.
func (p *pool) close() {
	close(p.tasks)
	p.wg.Wait()
}

// resetPoolForTest clears the one-shot construction guard. Exists
// only so this package's own tests can construct a fresh Local/pool
// per test case; production code (cmd/runner) never calls it and the
// one-shot-per-process invariant (spec §5) holds outside tests.
func resetPoolForTest() {
	poolOnce = sync.Once{}
	poolInst = nil
}
