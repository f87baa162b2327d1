package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
	resultHit   = "hit"
	resultMiss  = "miss"
)

// Option configures a PrometheusCollector.
type Option func(*options)

type options struct {
	namespace string
	labels    prometheus.Labels
	buckets   []float64
}

// WithNamespace prefixes every metric name. Default "nindex".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithIndexLabel attaches a constant index=name label.
func WithIndexLabel(name string) Option {
	return func(o *options) {
		o.labels = prometheus.Labels{"index": name}
	}
}

// WithBuckets overrides the latency histogram buckets in seconds.
func WithBuckets(b []float64) Option {
	return func(o *options) {
		o.buckets = b
	}
}

// PrometheusCollector records index operations as Prometheus counters and
// histograms. It satisfies nindex.MetricsCollector.
type PrometheusCollector struct {
	ops           *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	snapshotBytes prometheus.Counter
	lastSnapshot  prometheus.Gauge
}

// NewPrometheusCollector registers the collector's metrics with reg.
// Registering twice under the same namespace and labels fails.
func NewPrometheusCollector(reg prometheus.Registerer, opts ...Option) (c *PrometheusCollector, err error) {
	o := options{
		namespace: "nindex",
		buckets:   prometheus.ExponentialBuckets(100e-9, 4, 12),
	}
	for _, opt := range opts {
		opt(&o)
	}

	// promauto panics on registration conflicts.
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	f := promauto.With(reg)
	c = &PrometheusCollector{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "operations_total",
			Help:        "Index operations by kind and result.",
			ConstLabels: o.labels,
		}, []string{"op", "result"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "operation_duration_seconds",
			Help:        "Index operation latency.",
			ConstLabels: o.labels,
			Buckets:     o.buckets,
		}, []string{"op"}),
		snapshotBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "snapshot_bytes_total",
			Help:        "Raw bytes published as snapshots.",
			ConstLabels: o.labels,
		}),
		lastSnapshot: f.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Name:        "last_snapshot_timestamp_seconds",
			Help:        "Unix time of the last successful snapshot.",
			ConstLabels: o.labels,
		}),
	}
	return c, nil
}

func (c *PrometheusCollector) observe(op, result string, d time.Duration) {
	c.ops.WithLabelValues(op, result).Inc()
	c.latency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordInsert implements nindex.MetricsCollector.
func (c *PrometheusCollector) RecordInsert(d time.Duration, err error) {
	c.observe("insert", errResult(err), d)
}

// RecordDelete implements nindex.MetricsCollector.
func (c *PrometheusCollector) RecordDelete(d time.Duration, found bool) {
	c.observe("delete", hitResult(found), d)
}

// RecordLookup implements nindex.MetricsCollector.
func (c *PrometheusCollector) RecordLookup(d time.Duration, found bool) {
	c.observe("lookup", hitResult(found), d)
}

// RecordSnapshot implements nindex.MetricsCollector.
func (c *PrometheusCollector) RecordSnapshot(bytes int, d time.Duration, err error) {
	c.observe("snapshot", errResult(err), d)
	if err == nil {
		c.snapshotBytes.Add(float64(bytes))
		c.lastSnapshot.SetToCurrentTime()
	}
}

func errResult(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

func hitResult(found bool) string {
	if found {
		return resultHit
	}
	return resultMiss
}
