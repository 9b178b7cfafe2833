package shadow

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetrics tracks cache behaviour.
type CacheMetrics struct {
	Renders       prometheus.Counter
	Hits          prometheus.Counter
	References    prometheus.Gauge
	RenderSeconds prometheus.Histogram
}

// NewCacheMetrics creates the cache collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	f := promauto.With(reg)
	return &CacheMetrics{
		Renders: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fluentdeco",
			Subsystem: "shadow",
			Name:      "renders_total",
			Help:      "Number of shadow textures rendered.",
		}),
		Hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fluentdeco",
			Subsystem: "shadow",
			Name:      "cache_hits_total",
			Help:      "Number of texture lookups served without rendering.",
		}),
		References: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "fluentdeco",
			Subsystem: "shadow",
			Name:      "references",
			Help:      "Decorations currently holding the shared texture.",
		}),
		RenderSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fluentdeco",
			Subsystem: "shadow",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a shadow texture.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}
}

// Cache shares one shadow texture between every decoration of a factory.
//
// Each decoration calls Acquire when created and Release when destroyed.
// The texture is rebuilt only when the requested key differs from the one it
// was built for, and dropped when the last reference goes away.
type Cache struct {
	mu      sync.Mutex
	refs    int
	built   bool
	key     Key
	texture *Texture

	logger  *slog.Logger
	metrics *CacheMetrics
	build   func(Key) (*Texture, error)
}

// NewCache returns an empty cache. metrics may be nil.
func NewCache(logger *slog.Logger, metrics *CacheMetrics) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewCacheMetrics(nil)
	}
	return &Cache{logger: logger, metrics: metrics, build: Build}
}

// Acquire registers a new holder of the shared texture.
func (c *Cache) Acquire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs++
	c.metrics.References.Set(float64(c.refs))
}

// Release drops a holder. The texture is freed when the count reaches zero.
func (c *Cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refs == 0 {
		c.logger.Warn("shadow cache released more times than acquired")
		return
	}
	c.refs--
	c.metrics.References.Set(float64(c.refs))
	if c.refs == 0 {
		c.texture = nil
		c.built = false
		c.key = Key{}
		c.logger.Debug("shadow texture dropped")
	}
}

// References returns the current holder count.
func (c *Cache) References() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}

// Texture returns the texture for key, rendering it if nothing has been built
// yet or the key changed. The result is nil for the none preset.
func (c *Cache) Texture(key Key) (*Texture, error) {
	key = key.Normalized()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.built && c.key == key {
		c.metrics.Hits.Inc()
		return c.texture, nil
	}

	start := time.Now()
	tex, err := c.build(key)
	if err != nil {
		return nil, err
	}
	c.metrics.Renders.Inc()
	c.metrics.RenderSeconds.Observe(time.Since(start).Seconds())

	c.texture = tex
	c.key = key
	c.built = true
	c.logger.Debug("shadow texture rendered",
		"size", key.Size.String(),
		"strength", key.Strength,
		"none", tex == nil,
		"elapsed", time.Since(start))
	return c.texture, nil
}
