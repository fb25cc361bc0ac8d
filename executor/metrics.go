package executor

import "github.com/prometheus/client_golang/prometheus"

// promCounters mirrors cmn.Counters as prometheus metrics (spec §5's
// atomic counters, exported in addition per the domain-stack wiring
// for prometheus/client_golang). Registered only with the Registerer
// passed to newPromCounters; a nil Registerer leaves them
// unregistered, so tests can construct many executors.
type promCounters struct {
	total      prometheus.Counter
	processed  prometheus.Counter
	iterations prometheus.Counter
	errors     prometheus.Counter
}

func newPromCounters(reg prometheus.Registerer) *promCounters {
	p := &promCounters{
		total: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satan_executor_tasks_total",
			Help: "Total number of (test set, solver, path) tasks generated.",
		}),
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satan_executor_tasks_processed",
			Help: "Solver invocations whose metrics bundle (including a timeout failure bundle) was stored.",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satan_executor_iterations_total",
			Help: "Total solver invocations across all tasks, including repeated iterations.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satan_executor_errors_total",
			Help: "Unknown solver or ingestor lookups, spawn failures, ingestor failures, and store failures.",
		}),
	}
	if reg != nil {
		reg.MustRegister(p.total, p.processed, p.iterations, p.errors)
	}
	return p
}
