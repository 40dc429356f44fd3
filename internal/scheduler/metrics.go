package scheduler

import (
	"strconv"

	"github.com/glow-lang/glow/internal/runqueue"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the scheduler's Prometheus instrumentation points,
// labeled by scheduler id so a multi-scheduler runtime's dashboards
// can break down load per OS thread.
type Metrics struct {
	swaps       prometheus.Counter
	reductions  prometheus.Counter
	timersFired prometheus.Counter
}

// newMetrics registers (or, if reg is nil, constructs unregistered)
// counters and gauges for one scheduler. A GaugeFunc samples the run
// queue directly rather than being updated by hand, so its value can
// never drift from the queue's actual state.
func newMetrics(reg prometheus.Registerer, id int32, q *runqueue.RunQueue) *Metrics {
	labels := prometheus.Labels{"scheduler": strconv.Itoa(int(id))}

	m := &Metrics{
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "glow",
			Subsystem:   "scheduler",
			Name:        "swaps_total",
			Help:        "Number of process context swaps performed.",
			ConstLabels: labels,
		}),
		reductions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "glow",
			Subsystem:   "scheduler",
			Name:        "reductions_total",
			Help:        "Reductions spent across all processes.",
			ConstLabels: labels,
		}),
		timersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "glow",
			Subsystem:   "scheduler",
			Name:        "timers_fired_total",
			Help:        "Timer wheel entries that have fired.",
			ConstLabels: labels,
		}),
	}
	runQueueLen := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "glow",
		Subsystem:   "scheduler",
		Name:        "run_queue_length",
		Help:        "Immediately runnable processes.",
		ConstLabels: labels,
	}, func() float64 { return float64(q.Len()) })
	waitingLen := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "glow",
		Subsystem:   "scheduler",
		Name:        "waiting_length",
		Help:        "Processes parked in a receive.",
		ConstLabels: labels,
	}, func() float64 { return float64(q.WaitingLen()) })

	if reg != nil {
		reg.MustRegister(m.swaps, m.reductions, m.timersFired, runQueueLen, waitingLen)
	}
	return m
}
