package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Window-manager call metrics
	WMCalls    *prometheus.CounterVec
	WMDuration *prometheus.HistogramVec
	WMTimeouts prometheus.Counter

	// Circuit breaker metrics
	BreakerState prometheus.Gauge
	BreakerTrips prometheus.Counter

	// Activation metrics
	Activations        *prometheus.CounterVec
	ActivationDuration prometheus.Histogram

	// Recovery metrics
	RecoverySweeps    *prometheus.CounterVec
	WindowsRecovered  prometheus.Counter
	RecoveryErrors    prometheus.Counter

	// Cycle metrics
	CycleSessions prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskpilot_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskpilot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		WMCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskpilot_wm_calls_total",
				Help: "Total number of window-manager calls",
			},
			[]string{"op", "status"},
		),
		WMDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskpilot_wm_call_duration_seconds",
				Help:    "Window-manager call duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"op"},
		),
		WMTimeouts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deskpilot_wm_timeouts_total",
				Help: "Total number of window-manager call timeouts",
			},
		),

		BreakerState: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskpilot_breaker_open",
				Help: "Circuit breaker state (1 = open, 0 = closed)",
			},
		),
		BreakerTrips: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deskpilot_breaker_trips_total",
				Help: "Total number of circuit breaker trips",
			},
		),

		Activations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskpilot_activations_total",
				Help: "Total number of project activations",
			},
			[]string{"status"},
		),
		ActivationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deskpilot_activation_duration_seconds",
				Help:    "Project activation duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
			},
		),

		RecoverySweeps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskpilot_recovery_sweeps_total",
				Help: "Total number of recovery sweeps",
			},
			[]string{"scope"},
		),
		WindowsRecovered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deskpilot_windows_recovered_total",
				Help: "Total number of windows repositioned by recovery",
			},
		),
		RecoveryErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deskpilot_recovery_errors_total",
				Help: "Total number of per-window recovery errors",
			},
		),

		CycleSessions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "deskpilot_cycle_sessions_total",
				Help: "Total number of focus-cycle sessions started",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskpilot_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskpilot_uptime_seconds",
				Help: "Daemon uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWMCall records one window-manager call outcome
func (m *Metrics) RecordWMCall(op, status string, duration time.Duration) {
	m.WMCalls.WithLabelValues(op, status).Inc()
	m.WMDuration.WithLabelValues(op).Observe(duration.Seconds())
	if status == "timeout" {
		m.WMTimeouts.Inc()
	}
}

// RecordActivation records one activation outcome
func (m *Metrics) RecordActivation(status string, duration time.Duration) {
	m.Activations.WithLabelValues(status).Inc()
	m.ActivationDuration.Observe(duration.Seconds())
}

// RecordRecoverySweep records one recovery sweep outcome
func (m *Metrics) RecordRecoverySweep(scope string, recovered, errors int) {
	m.RecoverySweeps.WithLabelValues(scope).Inc()
	m.WindowsRecovered.Add(float64(recovered))
	m.RecoveryErrors.Add(float64(errors))
}
