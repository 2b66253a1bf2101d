package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GrantChain Metrics Collector
// Provides metrics for monitoring the grant ledger and the indexer

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all GrantChain metrics
type Collector struct {
	// Profile metrics
	ProfilesTotal     prometheus.Counter
	ProfileOperations *prometheus.CounterVec

	// Pool metrics
	PoolsTotal     prometheus.Counter
	PoolBalance    *prometheus.GaugeVec
	PoolFunded     *prometheus.CounterVec
	PoolFundingFee *prometheus.CounterVec

	// Recipient metrics
	RegistrationsTotal *prometheus.CounterVec
	RecipientsByStatus *prometheus.GaugeVec
	ReviewsTotal       *prometheus.CounterVec

	// Distribution metrics
	DistributionsTotal  *prometheus.CounterVec
	DistributedValue    *prometheus.CounterVec
	DistributionLatency *prometheus.HistogramVec

	// Indexer metrics
	IndexerEventsTotal   *prometheus.CounterVec
	IndexerLagBlocks     prometheus.Gauge
	IndexerSubscriptions prometheus.Gauge

	// System metrics
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Profile metrics
	c.ProfilesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "registry",
			Name:      "profiles_total",
			Help:      "Total number of profiles created",
		},
	)

	c.ProfileOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "registry",
			Name:      "operations_total",
			Help:      "Total profile operations by kind",
		},
		[]string{"operation"},
	)

	// Pool metrics
	c.PoolsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "allo",
			Name:      "pools_total",
			Help:      "Total number of pools created",
		},
	)

	c.PoolBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "grantchain",
			Subsystem: "allo",
			Name:      "pool_balance",
			Help:      "Current pool balance in the pool token",
		},
		[]string{"pool_id", "token"},
	)

	c.PoolFunded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "allo",
			Name:      "pool_funded_total",
			Help:      "Total funds credited to pools",
		},
		[]string{"pool_id", "token"},
	)

	c.PoolFundingFee = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "allo",
			Name:      "pool_funding_fee_total",
			Help:      "Total funding fees skimmed to the treasury",
		},
		[]string{"token"},
	)

	// Recipient metrics
	c.RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "grants",
			Name:      "registrations_total",
			Help:      "Total recipient registrations",
		},
		[]string{"pool_id", "strategy"},
	)

	c.RecipientsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "grantchain",
			Subsystem: "grants",
			Name:      "recipients",
			Help:      "Number of recipients by status",
		},
		[]string{"pool_id", "status"},
	)

	c.ReviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "grants",
			Name:      "reviews_total",
			Help:      "Total review verdicts by outcome",
		},
		[]string{"pool_id", "verdict"},
	)

	// Distribution metrics
	c.DistributionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "grants",
			Name:      "distributions_total",
			Help:      "Total distribution payouts",
		},
		[]string{"pool_id"},
	)

	c.DistributedValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "grants",
			Name:      "distributed_value_total",
			Help:      "Total value distributed to recipients",
		},
		[]string{"pool_id", "token"},
	)

	c.DistributionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "grantchain",
			Subsystem: "grants",
			Name:      "distribution_latency_ms",
			Help:      "Distribution processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"pool_id"},
	)

	// Indexer metrics
	c.IndexerEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grantchain",
			Subsystem: "indexer",
			Name:      "events_total",
			Help:      "Total ledger events indexed by type",
		},
		[]string{"event_type"},
	)

	c.IndexerLagBlocks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "grantchain",
			Subsystem: "indexer",
			Name:      "lag_blocks",
			Help:      "Blocks between chain head and last indexed height",
		},
	)

	c.IndexerSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "grantchain",
			Subsystem: "indexer",
			Name:      "subscriptions",
			Help:      "Number of active indexer subscriptions",
		},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "grantchain",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "grantchain",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	prometheus.MustRegister(c.ProfilesTotal)
	prometheus.MustRegister(c.ProfileOperations)

	prometheus.MustRegister(c.PoolsTotal)
	prometheus.MustRegister(c.PoolBalance)
	prometheus.MustRegister(c.PoolFunded)
	prometheus.MustRegister(c.PoolFundingFee)

	prometheus.MustRegister(c.RegistrationsTotal)
	prometheus.MustRegister(c.RecipientsByStatus)
	prometheus.MustRegister(c.ReviewsTotal)

	prometheus.MustRegister(c.DistributionsTotal)
	prometheus.MustRegister(c.DistributedValue)
	prometheus.MustRegister(c.DistributionLatency)

	prometheus.MustRegister(c.IndexerEventsTotal)
	prometheus.MustRegister(c.IndexerLagBlocks)
	prometheus.MustRegister(c.IndexerSubscriptions)

	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
}

// ============ Recording Helpers ============

// RecordProfileCreated records a profile creation
func (c *Collector) RecordProfileCreated() {
	c.ProfilesTotal.Inc()
	c.ProfileOperations.WithLabelValues("create").Inc()
}

// RecordPoolCreated records a pool creation
func (c *Collector) RecordPoolCreated() {
	c.PoolsTotal.Inc()
}

// RecordPoolFunding records funds credited to a pool and the fee skimmed
func (c *Collector) RecordPoolFunding(poolID, token string, net, fee float64) {
	c.PoolFunded.WithLabelValues(poolID, token).Add(net)
	if fee > 0 {
		c.PoolFundingFee.WithLabelValues(token).Add(fee)
	}
}

// RecordRegistration records a recipient registration
func (c *Collector) RecordRegistration(poolID, strategy string) {
	c.RegistrationsTotal.WithLabelValues(poolID, strategy).Inc()
}

// RecordReview records a review verdict
func (c *Collector) RecordReview(poolID, verdict string) {
	c.ReviewsTotal.WithLabelValues(poolID, verdict).Inc()
}

// RecordDistribution records a payout and its processing latency
func (c *Collector) RecordDistribution(poolID, token string, value, latencyMs float64) {
	c.DistributionsTotal.WithLabelValues(poolID).Inc()
	c.DistributedValue.WithLabelValues(poolID, token).Add(value)
	c.DistributionLatency.WithLabelValues(poolID).Observe(latencyMs)
}

// RecordIndexedEvent records one indexed ledger event
func (c *Collector) RecordIndexedEvent(eventType string) {
	c.IndexerEventsTotal.WithLabelValues(eventType).Inc()
}

// UpdateSystemMetrics updates system-level metrics
func (c *Collector) UpdateSystemMetrics(blockHeight int64) {
	c.BlockHeight.Set(float64(blockHeight))
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
