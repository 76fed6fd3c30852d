// Package metrics holds the Prometheus collectors for the data layer. Every
// method is safe on a nil *Collectors so callers never branch on whether
// metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "matchday"

type Collectors struct {
	cacheReads     *prometheus.CounterVec
	cacheWrites    *prometheus.CounterVec
	cacheEvictions prometheus.Counter
	providerCalls  *prometheus.CounterVec
	feedCycles     *prometheus.CounterVec
	feedMatches    prometheus.Gauge
	subscribers    prometheus.Gauge
}

func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		cacheReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "Cache reads by data kind and outcome (fresh, stale, miss).",
		}, []string{"kind", "outcome"}),
		cacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "writes_total",
			Help:      "Cache writes by outcome (ok, recovered, dropped).",
		}, []string{"outcome"}),
		cacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Entries removed to make room after a quota failure.",
		}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Provider calls by endpoint and result classification.",
		}, []string{"endpoint", "result"}),
		feedCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "cycles_total",
			Help:      "Polling cycles by outcome (updated, retained, empty, superseded, cancelled).",
		}, []string{"outcome"}),
		feedMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "matches",
			Help:      "Matches in the authoritative list.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "subscribers",
			Help:      "Active feed subscribers.",
		}),
	}

	if reg != nil {
		for _, collector := range []prometheus.Collector{
			c.cacheReads, c.cacheWrites, c.cacheEvictions, c.providerCalls,
			c.feedCycles, c.feedMatches, c.subscribers,
		} {
			if err := reg.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Collectors) CacheRead(kind, outcome string) {
	if c == nil {
		return
	}
	c.cacheReads.WithLabelValues(kind, outcome).Inc()
}

func (c *Collectors) CacheWrite(outcome string) {
	if c == nil {
		return
	}
	c.cacheWrites.WithLabelValues(outcome).Inc()
}

func (c *Collectors) CacheEvicted(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.cacheEvictions.Add(float64(n))
}

func (c *Collectors) ProviderCall(endpoint, result string) {
	if c == nil {
		return
	}
	c.providerCalls.WithLabelValues(endpoint, result).Inc()
}

func (c *Collectors) FeedCycle(outcome string, matches int) {
	if c == nil {
		return
	}
	c.feedCycles.WithLabelValues(outcome).Inc()
	c.feedMatches.Set(float64(matches))
}

func (c *Collectors) Subscribers(n int) {
	if c == nil {
		return
	}
	c.subscribers.Set(float64(n))
}
