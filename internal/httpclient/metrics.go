package httpclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vadimtrunov/showtime/internal/task"
)

// Request outcomes recorded besides status classes.
const (
	outcomeError    = "error"
	outcomeCanceled = "canceled"
)

// Metrics tracks outbound HTTP traffic.
type Metrics struct {
	// RequestsTotal counts requests by host and outcome ("2xx".."5xx", "error", "canceled")
	RequestsTotal *prometheus.CounterVec

	// RequestDuration tracks latency of completed requests
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates transport metrics and registers them with reg.
// Panics if registration fails (expected during initialization only).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "showtime_http_requests_total",
				Help: "Total outbound HTTP requests by host and outcome",
			},
			[]string{"host", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "showtime_http_request_duration_seconds",
				Help:    "Outbound HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"host"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	}
	return m
}

// Instrumented records Metrics for every request passing through it.
type Instrumented struct {
	client  Client
	metrics *Metrics
}

var _ Client = (*Instrumented)(nil)

// NewInstrumented wraps client with metrics recording.
func NewInstrumented(client Client, metrics *Metrics) *Instrumented {
	return &Instrumented{client: client, metrics: metrics}
}

// Do delegates to the wrapped client and records the outcome.
func (i *Instrumented) Do(req *http.Request, completion func(Response, error)) task.Task {
	host := req.URL.Host
	start := time.Now()

	h := task.NewHandle(func(resp Response, err error) {
		i.metrics.RequestDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
		i.metrics.RequestsTotal.WithLabelValues(host, outcome(resp, err)).Inc()
		completion(resp, err)
	})
	h.Wrap(i.client.Do(req, func(resp Response, err error) {
		h.Complete(resp, err)
	}))

	return task.Func(func() {
		if h.Stop() {
			i.metrics.RequestsTotal.WithLabelValues(host, outcomeCanceled).Inc()
		}
	})
}

func outcome(resp Response, err error) string {
	if err != nil {
		return outcomeError
	}
	return strconv.Itoa(resp.StatusCode/100) + "xx"
}
