package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"netmonitor/internal/models"
)

const prefix = "netmonitor_"

var (
	labelNames = []string{"target"}
	rttDesc    = prometheus.NewDesc(prefix+"rtt_ms", "Round trip time statistics in millis", append(labelNames, "type"), nil)
	probesDesc = prometheus.NewDesc(prefix+"probes_total", "Number of probes by result", append(labelNames, "result"), nil)
	windowDesc = prometheus.NewDesc(prefix+"window_failures", "Failed probes in the rolling history window", labelNames, nil)
)

// Collector exposes the latest statistics snapshot as Prometheus
// metrics. It is fed through a monitor subscription via Consume.
type Collector struct {
	mu     sync.Mutex
	target string
	stats  models.Snapshot
	ok     float64
	failed float64
	seen   bool
}

// NewCollector creates an empty collector; it exports nothing until the
// first update arrives.
func NewCollector() *Collector {
	return &Collector{}
}

// Consume feeds updates into the collector until the channel closes or
// ctx is cancelled.
func (c *Collector) Consume(ctx context.Context, updates <-chan models.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			c.Observe(u)
		}
	}
}

// Observe records a single update.
func (c *Collector) Observe(u models.Update) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = u.Target
	c.stats = u.Stats
	if u.Measurement.OK {
		c.ok++
	} else {
		c.failed++
	}
	c.seen = true
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- rttDesc
	ch <- probesDesc
	ch <- windowDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seen {
		return
	}

	l := []string{c.target}
	ch <- prometheus.MustNewConstMetric(rttDesc, prometheus.GaugeValue, millis(c.stats.Current), append(l, "current")...)
	ch <- prometheus.MustNewConstMetric(rttDesc, prometheus.GaugeValue, millis(c.stats.Average), append(l, "average")...)
	ch <- prometheus.MustNewConstMetric(rttDesc, prometheus.GaugeValue, millis(c.stats.Min), append(l, "min")...)
	ch <- prometheus.MustNewConstMetric(rttDesc, prometheus.GaugeValue, millis(c.stats.Max), append(l, "max")...)
	ch <- prometheus.MustNewConstMetric(rttDesc, prometheus.GaugeValue, millis(c.stats.Jitter), append(l, "jitter")...)

	ch <- prometheus.MustNewConstMetric(probesDesc, prometheus.CounterValue, c.ok, append(l, "ok")...)
	ch <- prometheus.MustNewConstMetric(probesDesc, prometheus.CounterValue, c.failed, append(l, "failed")...)

	ch <- prometheus.MustNewConstMetric(windowDesc, prometheus.GaugeValue, float64(c.stats.Failures), l...)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
