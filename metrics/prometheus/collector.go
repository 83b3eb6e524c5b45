// Package prometheus exports hexvec operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := hexprom.NewCollector(reg)
//	db := hexvec.New[string, Field](hexvec.WithMetricsCollector(mc))
package prometheus

import (
	"time"

	"github.com/hupe1980/hexvec"
	prom "github.com/prometheus/client_golang/prometheus"
)

var _ hexvec.MetricsCollector = (*Collector)(nil)

// Collector implements hexvec.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency   *prom.HistogramVec
	members     *prom.CounterVec
	lookups     *prom.CounterVec
	bytes       *prom.CounterVec
	vectorsSeen *prom.GaugeVec
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg selects prometheus.DefaultRegisterer.
func NewCollector(reg prom.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "hexvec_operation_latency_seconds",
			Help:    "Latency of hexvec operations",
			Buckets: prom.DefBuckets,
		}, []string{"op", "status"}),
		members: prom.NewCounterVec(prom.CounterOpts{
			Name: "hexvec_group_members_total",
			Help: "Group members inserted or removed",
		}, []string{"op"}),
		lookups: prom.NewCounterVec(prom.CounterOpts{
			Name: "hexvec_lookups_total",
			Help: "Entry and group lookups",
		}, []string{"result"}),
		bytes: prom.NewCounterVec(prom.CounterOpts{
			Name: "hexvec_session_bytes_total",
			Help: "Bytes written or read by session save and load",
		}, []string{"op"}),
		vectorsSeen: prom.NewGaugeVec(prom.GaugeOpts{
			Name: "hexvec_session_vectors",
			Help: "Number of vectors in the last saved or loaded session",
		}, []string{"op"}),
	}

	for _, m := range []prom.Collector{c.opLatency, c.members, c.lookups, c.bytes, c.vectorsSeen} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNewCollector is like NewCollector but panics on registration errors.
func MustNewCollector(reg prom.Registerer) *Collector {
	c, err := NewCollector(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
}

// RecordInsertGroup implements hexvec.MetricsCollector.
func (c *Collector) RecordInsertGroup(size int, d time.Duration, err error) {
	c.observe("insert_group", d, err)
	if err == nil {
		c.members.WithLabelValues("insert").Add(float64(size))
	}
}

// RecordRemoveGroup implements hexvec.MetricsCollector.
func (c *Collector) RecordRemoveGroup(removed int, d time.Duration, err error) {
	c.observe("remove_group", d, err)
	if err == nil {
		c.members.WithLabelValues("remove").Add(float64(removed))
	}
}

// RecordUnlink implements hexvec.MetricsCollector.
func (c *Collector) RecordUnlink(d time.Duration, err error) {
	c.observe("unlink", d, err)
}

// RecordLookup implements hexvec.MetricsCollector.
func (c *Collector) RecordLookup(d time.Duration, found bool) {
	result := "hit"
	if !found {
		result = "miss"
	}
	c.opLatency.WithLabelValues("lookup", "success").Observe(d.Seconds())
	c.lookups.WithLabelValues(result).Inc()
}

// RecordSave implements hexvec.MetricsCollector.
func (c *Collector) RecordSave(vectors int, bytes int64, d time.Duration, err error) {
	c.observe("save", d, err)
	c.bytes.WithLabelValues("save").Add(float64(bytes))
	if err == nil {
		c.vectorsSeen.WithLabelValues("save").Set(float64(vectors))
	}
}

// RecordLoad implements hexvec.MetricsCollector.
func (c *Collector) RecordLoad(vectors int, bytes int64, d time.Duration, err error) {
	c.observe("load", d, err)
	c.bytes.WithLabelValues("load").Add(float64(bytes))
	if err == nil {
		c.vectorsSeen.WithLabelValues("load").Set(float64(vectors))
	}
}
