// Package prommetrics exports fieldacc metrics to Prometheus.
//
//	c := prommetrics.NewCollector(prometheus.DefaultRegisterer)
//	r, _ := fieldacc.New(fieldacc.WithMetricsCollector(c))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/fieldacc"
)

const namespace = "fieldacc"

// Collector implements fieldacc.MetricsCollector.
type Collector struct {
	latency  *prometheus.HistogramVec
	records  prometheus.Counter
	replicas prometheus.Histogram
	blocks   prometheus.Counter
	wait     prometheus.Counter
	errors   *prometheus.CounterVec
}

var _ fieldacc.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers it with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of reductions and pipelines",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"op", "status"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reduced_records_total",
			Help:      "Total records reduced into replica 0",
		}),
		replicas: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "replicas",
			Help:      "Replica count per reduction",
			Buckets:   prometheus.LinearBuckets(1, 1, fieldacc.MaxReplicas),
		}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Total blocks stored by pipelines",
		}),
		wait: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_wait_seconds_total",
			Help:      "Time pipelines spent blocked on transfers",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed reductions and pipelines",
		}, []string{"op"}),
	}

	reg.MustRegister(c.latency, c.records, c.replicas, c.blocks, c.wait, c.errors)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordReduce implements fieldacc.MetricsCollector.
func (c *Collector) RecordReduce(records, replicas int, d time.Duration, err error) {
	c.latency.WithLabelValues("reduce", status(err)).Observe(d.Seconds())
	c.replicas.Observe(float64(replicas))
	if err != nil {
		c.errors.WithLabelValues("reduce").Inc()
		return
	}
	c.records.Add(float64(records))
}

// RecordPipeline implements fieldacc.MetricsCollector.
func (c *Collector) RecordPipeline(blocks, _ int, wait, d time.Duration, err error) {
	c.latency.WithLabelValues("pipeline", status(err)).Observe(d.Seconds())
	c.blocks.Add(float64(blocks))
	c.wait.Add(wait.Seconds())
	if err != nil {
		c.errors.WithLabelValues("pipeline").Inc()
	}
}
