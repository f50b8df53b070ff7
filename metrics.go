package flagx

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exposes engine activity as Prometheus metrics. A nil
// collector in Options disables collection.
type MetricsCollector struct {
	refreshTotal      *prometheus.CounterVec
	snapshotPublishes prometheus.Counter
	overrideMutations *prometheus.CounterVec
	resolvedKeys      prometheus.Gauge
}

// NewMetricsCollector creates and registers the engine metrics. A nil
// registerer uses the default Prometheus registry.
func NewMetricsCollector(reg prometheus.Registerer) (*MetricsCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &MetricsCollector{
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flagx_refresh_total",
			Help: "Remote refresh attempts by outcome.",
		}, []string{"outcome"}),
		snapshotPublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flagx_snapshot_publishes_total",
			Help: "Resolved snapshot publications.",
		}),
		overrideMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flagx_override_mutations_total",
			Help: "Override writes and clears by operation.",
		}, []string{"op"}),
		resolvedKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flagx_resolved_keys",
			Help: "Keys in the last published snapshot.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.refreshTotal, c.snapshotPublishes, c.overrideMutations, c.resolvedKeys,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RefreshObserved records one refresh attempt with its outcome.
func (c *MetricsCollector) RefreshObserved(outcome string) {
	c.refreshTotal.WithLabelValues(outcome).Inc()
}

// SnapshotPublished records one snapshot publication and its key count.
func (c *MetricsCollector) SnapshotPublished(keys int) {
	c.snapshotPublishes.Inc()
	c.resolvedKeys.Set(float64(keys))
}

// OverrideMutated records one override mutation.
func (c *MetricsCollector) OverrideMutated(op string) {
	c.overrideMutations.WithLabelValues(op).Inc()
}
