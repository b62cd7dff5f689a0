package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lockdeal metrics collector

var (
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all lockdeal metrics
type Collector struct {
	// Engine metrics
	MsgsTotal     *prometheus.CounterVec
	MsgLatency    *prometheus.HistogramVec
	CommitHeight  prometheus.Gauge
	EventsEmitted *prometheus.CounterVec

	// Pool metrics
	PoolsCreated     *prometheus.CounterVec
	PoolsWithdrawn   *prometheus.CounterVec
	PoolsTransferred prometheus.Counter
	BatchSize        *prometheus.HistogramVec
	RebuildsTotal    *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive prometheus.Gauge
	WSMessagesTotal     *prometheus.CounterVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
		collector.registerAll(prometheus.DefaultRegisterer)
	})
	return collector
}

// NewUnregistered builds a collector that is not attached to the default
// registry, for tests and embedded engines.
func NewUnregistered() *Collector {
	return newCollector()
}

func newCollector() *Collector {
	c := &Collector{}

	c.MsgsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "engine",
			Name:      "msgs_total",
			Help:      "Messages executed by type and result",
		},
		[]string{"msg_type", "result"},
	)

	c.MsgLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lockdeal",
			Subsystem: "engine",
			Name:      "msg_latency_ms",
			Help:      "Message execution latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"msg_type"},
	)

	c.CommitHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lockdeal",
			Subsystem: "engine",
			Name:      "commit_height",
			Help:      "Last committed store version",
		},
	)

	c.EventsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "engine",
			Name:      "events_total",
			Help:      "Module events emitted by committed messages",
		},
		[]string{"event_type"},
	)

	c.PoolsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "pools",
			Name:      "created_total",
			Help:      "Pools minted by provider",
		},
		[]string{"provider"},
	)

	c.PoolsWithdrawn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "pools",
			Name:      "withdrawn_total",
			Help:      "Withdrawals by provider",
		},
		[]string{"provider"},
	)

	c.PoolsTransferred = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "pools",
			Name:      "transferred_total",
			Help:      "Pool ownership transfers",
		},
	)

	c.BatchSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lockdeal",
			Subsystem: "builder",
			Name:      "batch_size",
			Help:      "Allocations per mass build",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"kind"},
	)

	c.RebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "builder",
			Name:      "rebuilds_total",
			Help:      "Collateral rebuilds by result",
		},
		[]string{"result"},
	)

	c.WSConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lockdeal",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "WebSocket messages sent by channel",
		},
		[]string{"channel"},
	)

	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lockdeal",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lockdeal",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	return c
}

func (c *Collector) registerAll(reg prometheus.Registerer) {
	reg.MustRegister(
		c.MsgsTotal,
		c.MsgLatency,
		c.CommitHeight,
		c.EventsEmitted,
		c.PoolsCreated,
		c.PoolsWithdrawn,
		c.PoolsTransferred,
		c.BatchSize,
		c.RebuildsTotal,
		c.WSConnectionsActive,
		c.WSMessagesTotal,
		c.APIRequestsTotal,
		c.APIRequestLatency,
		c.RateLimitHits,
	)
}

// ============ Recording Helpers ============

// RecordMsg records one executed message
func (c *Collector) RecordMsg(msgType string, err error, latencyMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.MsgsTotal.WithLabelValues(msgType, result).Inc()
	c.MsgLatency.WithLabelValues(msgType).Observe(latencyMs)
}

// RecordCommit records a committed store version
func (c *Collector) RecordCommit(height int64) {
	c.CommitHeight.Set(float64(height))
}

// RecordEvent records one committed module event. Pool lifecycle events also
// feed the pool counters.
func (c *Collector) RecordEvent(eventType string, attrs map[string]string) {
	c.EventsEmitted.WithLabelValues(eventType).Inc()
	switch eventType {
	case "pool_created":
		c.PoolsCreated.WithLabelValues(attrs["provider"]).Inc()
	case "pool_withdrawn":
		c.PoolsWithdrawn.WithLabelValues(attrs["provider"]).Inc()
	case "pool_transferred":
		c.PoolsTransferred.Inc()
	case "pools_rebuilt":
		c.RebuildsTotal.WithLabelValues("ok").Inc()
	}
}

// RecordBatch records the size of a mass build
func (c *Collector) RecordBatch(kind string, size int) {
	c.BatchSize.WithLabelValues(kind).Observe(float64(size))
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a throttled request
func (c *Collector) RecordRateLimitHit(path string) {
	c.RateLimitHits.WithLabelValues(path).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
