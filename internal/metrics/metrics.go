package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route pattern and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OptimizeRuns counts optimizer calls by outcome (ok, invalid, error)
	OptimizeRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimize_runs_total", Help: "Route optimizer runs by outcome."},
		[]string{"outcome"},
	)
	// OptimizeDuration tracks optimizer latency in seconds
	OptimizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_optimize_duration_seconds", Help: "Route optimizer latency in seconds.", Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}},
	)
	// RoutedBins records how many bins end up on each route
	RoutedBins = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_routed_bins", Help: "Bins placed on each optimized route.", Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250}},
	)
	// UnroutedBins counts bins admitted by capacity but unreachable under the distance cutoff
	UnroutedBins = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_unrouted_bins_total", Help: "Admitted bins left off a route because they were unreachable."},
	)

	// TelemetryReadings counts ingested sensor readings by result
	TelemetryReadings = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "telemetry_readings_total", Help: "Bin telemetry readings by result."},
		[]string{"result"},
	)
	// FullBinAlerts counts push notifications for full bins by status
	FullBinAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "full_bin_alerts_total", Help: "Full-bin push notifications by status."},
		[]string{"status"},
	)
	// GasAlerts counts gas-level push notifications by status
	GasAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gas_alerts_total", Help: "Gas-level push notifications by status."},
		[]string{"status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizeRuns)
		Registry.MustRegister(OptimizeDuration)
		Registry.MustRegister(RoutedBins)
		Registry.MustRegister(UnroutedBins)
		Registry.MustRegister(TelemetryReadings)
		Registry.MustRegister(FullBinAlerts)
		Registry.MustRegister(GasAlerts)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
