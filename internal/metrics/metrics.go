// Package metrics – Prometheus instrumentation for the scanner.
//
// Exposed series:
//   - scanner_cycles_total                 – completed scan cycles
//   - scanner_decisions_total{tier}        – entry decisions by risk tier
//   - scanner_orders_total                 – entry orders accepted by the broker
//   - scanner_vetoes_total{reason}         – risk-gate vetoes by reason
//   - scanner_evaluation_errors_total      – per-symbol evaluation failures
//   - scanner_reconnects_total{result}     – session reconnect attempts
//   - scanner_permits_in_use               – evaluations currently holding a permit
//   - scanner_universe_size                – symbols in the active universe
//
// Registered in init() and served at /metrics by Serve.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Cycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_cycles_total",
			Help: "Completed scan cycles",
		},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_decisions_total",
			Help: "Entry decisions by risk tier",
		},
		[]string{"tier"},
	)

	Orders = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_orders_total",
			Help: "Entry orders accepted by the broker",
		},
	)

	Vetoes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_vetoes_total",
			Help: "Risk gate vetoes by reason",
		},
		[]string{"reason"},
	)

	EvalErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scanner_evaluation_errors_total",
			Help: "Per-symbol evaluation failures",
		},
	)

	Reconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_reconnects_total",
			Help: "Broker session reconnect attempts by result",
		},
		[]string{"result"},
	)

	PermitsInUse = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scanner_permits_in_use",
			Help: "Evaluations currently holding a concurrency permit",
		},
	)

	UniverseSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scanner_universe_size",
			Help: "Symbols in the active universe",
		},
	)
)

func init() {
	prometheus.MustRegister(
		Cycles,
		Decisions,
		Orders,
		Vetoes,
		EvalErrors,
		Reconnects,
		PermitsInUse,
		UniverseSize,
	)
}

// Serve exposes /metrics on addr. Blocks; run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
