// Package metrics exposes Prometheus counters for the payroll console.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentComputations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "payroll", Name: "payment_computations_total", Help: "Completed payment computations",
	})
	ComputationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "payroll", Name: "computation_failures_total", Help: "Failed payment computations",
	})
	ComputationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "payroll", Name: "computation_seconds", Help: "Payment computation latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(PaymentComputations, ComputationFailures, ComputationDuration)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveComputation(d time.Duration) { ComputationDuration.Observe(d.Seconds()) }
