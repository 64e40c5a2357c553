package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/cpuutil/internal/orchestration"
	"github.com/agbru/cpuutil/internal/sampler"
)

const namespace = "cpuutil"

// Metrics holds the Prometheus collectors exported by the server. Each
// instance owns its registry, so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	userPercent   prometheus.Gauge
	kernelPercent prometheus.Gauge
	idlePercent   prometheus.Gauge
	usedPercent   prometheus.Gauge

	samples        prometheus.Counter
	invalid        prometheus.Counter
	degenerate     prometheus.Counter
	sourceFailures prometheus.Counter

	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
}

// Verify interface compliance.
var _ orchestration.MetricsRecorder = (*Metrics)(nil)

// NewMetrics creates and registers all collectors, including the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		registry:       reg,
		userPercent:    gauge("user_percent", "User-mode CPU utilization over the last interval."),
		kernelPercent:  gauge("kernel_percent", "Kernel-mode CPU utilization, excluding idle, over the last interval."),
		idlePercent:    gauge("idle_percent", "Idle CPU share over the last interval."),
		usedPercent:    gauge("used_percent", "Total busy CPU utilization over the last interval."),
		samples:        counter("samples_total", "Samples computed successfully."),
		invalid:        counter("invalid_samples_total", "Samples rejected because a counter went backwards."),
		degenerate:     counter("degenerate_intervals_total", "Intervals in which no CPU time elapsed."),
		sourceFailures: counter("source_failures_total", "Failed reads of the CPU time counters."),
		activeRequests: gauge("http_active_requests", "HTTP requests currently being served."),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by path.",
		}, []string{"path"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.userPercent, m.kernelPercent, m.idlePercent, m.usedPercent,
		m.samples, m.invalid, m.degenerate, m.sourceFailures,
		m.activeRequests, m.requestsTotal,
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// ObserveSample publishes the latest percentages.
func (m *Metrics) ObserveSample(r sampler.UtilizationResult) {
	m.userPercent.Set(r.UserPercent)
	m.kernelPercent.Set(r.KernelPercent)
	m.idlePercent.Set(r.IdlePercent)
	m.usedPercent.Set(r.TotalUsedPercent)
	m.samples.Inc()
}

// ObserveInvalid counts a rejected sample.
func (m *Metrics) ObserveInvalid() { m.invalid.Inc() }

// ObserveDegenerate counts a zero-length interval.
func (m *Metrics) ObserveDegenerate() { m.degenerate.Inc() }

// ObserveSourceFailure counts a failed counter read.
func (m *Metrics) ObserveSourceFailure() { m.sourceFailures.Inc() }

// IncrementActiveRequests marks the start of an HTTP request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of an HTTP request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a served request for path.
func (m *Metrics) ObserveRequest(path string) { m.requestsTotal.WithLabelValues(path).Inc() }

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
