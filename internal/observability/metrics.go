package observability

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics keeps in-memory counters for GET /metrics and mirrors every
// observation onto OpenTelemetry instruments, so an installed MeterProvider
// receives the same data.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
	tickets       map[string]int64

	requests     metric.Int64Counter
	errors       metric.Int64Counter
	latency      metric.Float64Histogram
	ticketEvents metric.Int64Counter
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests        map[string]int64 `json:"requests"`
	Errors          map[string]int64 `json:"errors"`
	AvgLatencyMilli map[string]int64 `json:"avgLatencyMs"`
	TicketEvents    map[string]int64 `json:"ticketEvents"`
}

// NewMetrics initializes metrics storage on the global meter provider.
func NewMetrics() *Metrics {
	return NewMetricsWithMeter(otel.Meter(tracerName))
}

// NewMetricsWithMeter initializes metrics storage on meter. Instruments that
// fail to register are left nil and skipped.
func NewMetricsWithMeter(meter metric.Meter) *Metrics {
	m := &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
		tickets:       make(map[string]int64),
	}
	m.requests, _ = meter.Int64Counter("helpdesk.http.requests",
		metric.WithDescription("HTTP requests by route, method and status"))
	m.errors, _ = meter.Int64Counter("helpdesk.http.errors",
		metric.WithDescription("Failed HTTP requests by route, method and error code"))
	m.latency, _ = meter.Float64Histogram("helpdesk.http.duration",
		metric.WithDescription("HTTP request latency"), metric.WithUnit("ms"))
	m.ticketEvents, _ = meter.Int64Counter("helpdesk.ticket.events",
		metric.WithDescription("Published ticket lifecycle events"))
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
	m.mu.Unlock()

	attrs := metric.WithAttributes(
		attribute.String("http.route", path),
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status))
	if m.requests != nil {
		m.requests.Add(context.Background(), 1, attrs)
	}
	if m.latency != nil {
		m.latency.Record(context.Background(), float64(duration)/float64(time.Millisecond), attrs)
	}
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	m.errorCount[key]++
	m.mu.Unlock()

	if m.errors != nil {
		m.errors.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("http.route", path),
			attribute.String("http.request.method", method),
			attribute.String("error.code", code)))
	}
}

// RecordTicketEvent counts published ticket lifecycle events by name.
func (m *Metrics) RecordTicketEvent(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.tickets[name]++
	m.mu.Unlock()

	if m.ticketEvents != nil {
		m.ticketEvents.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event.type", name)))
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests:        map[string]int64{},
		Errors:          map[string]int64{},
		AvgLatencyMilli: map[string]int64{},
		TicketEvents:    map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
		if v > 0 {
			snap.AvgLatencyMilli[k] = (m.totalDuration[k] / time.Duration(v)).Milliseconds()
		}
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.tickets {
		snap.TicketEvents[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
