// Package metrics implements the observability hooks with Prometheus
// collectors on a private registry.
//
// The CLI is short-lived, so metrics are not scraped. Instead the registry
// is written to a node_exporter textfile on exit with [Collector.WriteTextfile].
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/orgmorph/pkg/observability"
)

const namespace = "orgmorph"

var latencyBuckets = []float64{
	0.0005, 0.001, 0.005,
	0.01, 0.05,
	0.1, 0.5,
	1, 5,
}

// Collector records pipeline, cache and store events.
type Collector struct {
	registry *prometheus.Registry

	layoutTotal    *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutPeople   *prometheus.GaugeVec

	renderTotal    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheRequests *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec

	storeOps   *prometheus.CounterVec
	storeBytes *prometheus.GaugeVec
}

var (
	_ observability.PipelineHooks = (*Collector)(nil)
	_ observability.CacheHooks    = (*Collector)(nil)
	_ observability.StoreHooks    = (*Collector)(nil)
)

// New creates a collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		registry: reg,
		layoutTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "runs_total",
			Help:      "Total number of layout computations by view and result.",
		}, []string{"view", "result"}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout computation latency.",
			Buckets:   latencyBuckets,
		}, []string{"view"}),
		layoutPeople: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "people",
			Help:      "Number of people in the last laid out organisation.",
		}, []string{"view"}),
		renderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "runs_total",
			Help:      "Total number of render runs by format and result.",
		}, []string{"format", "result"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Render latency for all requested formats.",
			Buckets:   latencyBuckets,
		}, []string{"result"}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Total number of cache lookups by key type and hit/miss.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of store operations by kind and result.",
		}, []string{"op", "key", "result"}),
		storeBytes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "value_bytes",
			Help:      "Size of the last value read or written per key.",
		}, []string{"key"}),
	}
}

// Register installs c as the global pipeline, cache and store hooks.
func (c *Collector) Register() {
	observability.SetPipelineHooks(c)
	observability.SetCacheHooks(c)
	observability.SetStoreHooks(c)
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

func (c *Collector) OnLayoutStart(_ context.Context, view string, people int) {
	c.layoutPeople.WithLabelValues(view).Set(float64(people))
}

func (c *Collector) OnLayoutComplete(_ context.Context, view string, d time.Duration, err error) {
	c.layoutTotal.WithLabelValues(view, result(err)).Inc()
	c.layoutDuration.WithLabelValues(view).Observe(d.Seconds())
}

func (c *Collector) OnRenderStart(context.Context, []string) {}

func (c *Collector) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	res := result(err)
	for _, f := range formats {
		c.renderTotal.WithLabelValues(f, res).Inc()
	}
	c.renderDuration.WithLabelValues(res).Observe(d.Seconds())
}

func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, keyType string, size int) {
	c.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (c *Collector) OnLoad(_ context.Context, key string, size int, err error) {
	c.storeOps.WithLabelValues("load", key, result(err)).Inc()
	if err == nil {
		c.storeBytes.WithLabelValues(key).Set(float64(size))
	}
}

func (c *Collector) OnSave(_ context.Context, key string, size int, err error) {
	c.storeOps.WithLabelValues("save", key, result(err)).Inc()
	if err == nil {
		c.storeBytes.WithLabelValues(key).Set(float64(size))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
