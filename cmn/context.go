package cmn

import "sync/atomic"

// Context resolves test-set and solver names to small, process-stable
// integer ids (spec §3 "Context identifiers"). Storage adapters
// populate it during Adapter.Init; the executor treats it as a
// read-only lookup table for the remainder of the run.
//
// Guarded by a FairMutex rather than sync.RWMutex: resolution happens
// under the same contention profile as the adapters that populate it
// (many worker goroutines, short critical sections), and a single
// fair lock keeps the two models analogous (see database package).
type Context struct {
	mu          FairMutex
	benchmarkID int64
	testSetIDs  map[string]int64
	solverIDs   map[string]int64
}

func NewContext() *Context {
	return &Context{
		testSetIDs: make(map[string]int64),
		solverIDs:  make(map[string]int64),
	}
}

func (c *Context) SetBenchmarkID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.benchmarkID = id
}

func (c *Context) BenchmarkID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.benchmarkID
}

func (c *Context) SetTestSetID(name string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testSetIDs[name] = id
}

// TestSetID returns the resolved id. Per spec §3 invariant, an
// unknown name at this point is a programming error, so callers that
// have already passed preflight should treat the bool as an assertion,
// not a recoverable condition.
func (c *Context) TestSetID(name string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.testSetIDs[name]
	return id, ok
}

func (c *Context) SetSolverID(name string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solverIDs[name] = id
}

func (c *Context) SolverID(name string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.solverIDs[name]
	return id, ok
}

// Counters tracks the atomic progress/error accounting required by
// spec §4.6 and §5 ("Atomic counters (u64) ... sequentially
// consistent ordering"). sync/atomic's default load/store/add already
// provide sequential consistency on every supported Go platform, so
// no extra memory-ordering annotation is needed to match the teacher.
type Counters struct {
	total      atomic.Int64
	processed  atomic.Int64
	iterations atomic.Int64
	errors     atomic.Int64
}

func (c *Counters) AddTotal(n int64)      { c.total.Add(n) }
func (c *Counters) IncProcessed()         { c.processed.Add(1) }
func (c *Counters) AddIterations(n int64) { c.iterations.Add(n) }
func (c *Counters) IncErrors()            { c.errors.Add(1) }

func (c *Counters) Snapshot() (total, processed, iterations, errs int64) {
	return c.total.Load(), c.processed.Load(), c.iterations.Load(), c.errors.Load()
}
