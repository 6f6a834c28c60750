package rule110

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var (
	// runsTotal counts finished runs by strategy and result
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rule110_runs_total",
		Help: "Total automaton runs by strategy and result",
	}, []string{"strategy", "result"})

	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rule110_generations_total",
		Help: "Total generations computed by strategy",
	}, []string{"strategy"})

	// barrierWait is the time from releasing a generation to the slowest
	// worker publishing the next one
	barrierWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rule110_barrier_wait_seconds",
		Help:    "Time the distributor waits for all workers to publish a generation",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12), // 1µs to ~4s
	})

	exchangeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rule110_boundary_exchange_failures_total",
		Help: "Total runs aborted by a failed boundary exchange",
	})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rule110_run_duration_seconds",
		Help:    "Wall-clock duration of a run",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
	}, []string{"strategy"})
)

const (
	strategyParallel   = "parallel"
	strategySequential = "sequential"
)

var tracer = otel.Tracer("rule110")

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
