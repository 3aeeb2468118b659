// Package metrics provides Prometheus instrumentation for dhwani.
//
// Wire it into a dispatcher once:
//
//	d := event.New(event.WithHook(metrics.Hook()))
//
// and, if the host process scrapes, expose the registry:
//
//	http.Handle("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shashiranjanraj/dhwani/pkg/event"
)

// ─────────────────────────────────────────────
// Built-in dispatch metrics
// ─────────────────────────────────────────────

var (
	// EmissionsTotal counts emissions that found at least one listener.
	EmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dhwani",
			Subsystem: "event",
			Name:      "emissions_total",
			Help:      "Total emissions that reached at least one listener.",
		},
		[]string{"event"},
	)

	// ListenersNotified counts listener invocations started by emissions.
	ListenersNotified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dhwani",
			Subsystem: "event",
			Name:      "listeners_notified_total",
			Help:      "Total listener invocations started.",
		},
		[]string{"event"},
	)

	// ListenerErrors counts failed listener invocations, synchronous and
	// asynchronous alike.
	ListenerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dhwani",
			Subsystem: "event",
			Name:      "listener_errors_total",
			Help:      "Total failed listener invocations.",
		},
		[]string{"event"},
	)

	// SettleDuration tracks how long an emission takes to settle, from the
	// first listener starting until the slowest asynchronous one finishes.
	SettleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dhwani",
			Subsystem: "event",
			Name:      "settle_duration_seconds",
			Help:      "Time from emission start until every listener settled.",
			Buckets:   prometheus.DefBuckets, // .005 .01 .025 .05 .1 .25 .5 1 2.5 5 10
		},
		[]string{"event"},
	)
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by dhwani.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// dhwani built-in metrics
	DefaultRegistry.MustRegister(
		EmissionsTotal,
		ListenersNotified,
		ListenerErrors,
		SettleDuration,
	)
}

// Register lets you add your own prometheus.Collector to the dhwani registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// Handler returns an http.Handler that serves DefaultRegistry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// ─────────────────────────────────────────────
// Dispatch hook
// ─────────────────────────────────────────────

// hook adapts the built-in metrics to event.Hook.
type hook struct{}

// Hook returns the event.Hook that records dispatch metrics. Pass it to
// event.New via event.WithHook.
func Hook() event.Hook { return hook{} }

func (hook) Emitted(name string, listeners int) {
	EmissionsTotal.WithLabelValues(name).Inc()
	ListenersNotified.WithLabelValues(name).Add(float64(listeners))
}

func (hook) ListenerError(name string) {
	ListenerErrors.WithLabelValues(name).Inc()
}

func (hook) Settled(name string, elapsed time.Duration) {
	SettleDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}
