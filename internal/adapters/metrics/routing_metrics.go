package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rbeltran/stitchops/internal/domain/routing"
)

// StatsSource provides the aggregates the polling gauges are built from
type StatsSource interface {
	Stats(ctx context.Context) (*routing.Stats, error)
	FindPending(ctx context.Context) ([]*routing.PendingJob, error)
}

// RoutingMetricsCollector polls the job store and exposes routing gauges
type RoutingMetricsCollector struct {
	source StatsSource

	jobsTotal         prometheus.Gauge
	jobsByRoutedBy    *prometheus.GaugeVec
	pendingQueueDepth prometheus.Gauge
	splitOrdersTotal  prometheus.Gauge

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	pollInterval time.Duration
}

// NewRoutingMetricsCollector creates a new routing metrics collector
func NewRoutingMetricsCollector(source StatsSource, pollInterval time.Duration) *RoutingMetricsCollector {
	return &RoutingMetricsCollector{
		source:       source,
		pollInterval: pollInterval,

		jobsTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_total",
				Help:      "Total number of manufacturer jobs",
			},
		),

		jobsByRoutedBy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_by_routed_by",
				Help:      "Manufacturer jobs grouped by routing method",
			},
			[]string{"routed_by"},
		),

		pendingQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pending_queue_depth",
				Help:      "Jobs awaiting manual manufacturer assignment",
			},
		),

		splitOrdersTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "split_orders_total",
				Help:      "Orders whose jobs span more than one manufacturer",
			},
		),
	}
}

// Register registers all routing metrics with the Prometheus registry
func (c *RoutingMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	collectors := []prometheus.Collector{
		c.jobsTotal,
		c.jobsByRoutedBy,
		c.pendingQueueDepth,
		c.splitOrdersTotal,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// Start begins polling the job store in the background
func (c *RoutingMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.pollMetrics(c.pollInterval)
}

// Stop halts polling and waits for the poll loop to exit
func (c *RoutingMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *RoutingMetricsCollector) pollMetrics(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do initial poll immediately
	c.updateAllMetrics()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateAllMetrics()
		}
	}
}

// updateAllMetrics refreshes all polling-based gauges
func (c *RoutingMetricsCollector) updateAllMetrics() {
	if c.source == nil {
		return
	}

	stats, err := c.source.Stats(c.ctx)
	if err != nil {
		log.Printf("metrics: failed to poll routing stats: %v", err)
		return
	}

	c.jobsByRoutedBy.Reset()

	c.jobsTotal.Set(float64(stats.TotalJobs))
	for routedBy, count := range stats.ByRoutedBy {
		c.jobsByRoutedBy.WithLabelValues(string(routedBy)).Set(float64(count))
	}
	c.splitOrdersTotal.Set(float64(stats.SplitOrders))

	pending, err := c.source.FindPending(c.ctx)
	if err != nil {
		log.Printf("metrics: failed to poll pending queue: %v", err)
		return
	}
	c.pendingQueueDepth.Set(float64(len(pending)))
}
