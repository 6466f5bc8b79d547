package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/technicallyty/poolstat/mempool"
	"github.com/technicallyty/poolstat/stats"
)

type Collector interface {
	RequestSent()
	ResponseReceived(elapsed time.Duration)
	RequestFailed(kind mempool.FailureKind)
	SnapshotUpdated(snap stats.Snapshot)
}

type DefaultCollector struct {
	requestsSent      prometheus.Counter
	requestsFailed    *prometheus.CounterVec
	responseDurations prometheus.Histogram
	transactions      *prometheus.GaugeVec
	addressesFound    prometheus.Gauge
	uniqueAddresses   prometheus.Gauge
	fieldOccurrences  *prometheus.GaugeVec
}

var _ Collector = &DefaultCollector{}

// NewCollector registers the poll metrics on reg. If registration fails the
// returned collector is a no-op.
func NewCollector(logger zerolog.Logger, reg prometheus.Registerer) Collector {
	requestsSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "txpool_requests_sent_total",
		Help: "Total number of txpool_content requests issued",
	})

	requestsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "txpool_requests_failed_total",
		Help: "Total number of txpool_content requests without a usable response",
	}, []string{"kind"})

	responseDurations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "txpool_response_duration_seconds",
		Help:    "Round trip time of successful txpool_content requests",
		Buckets: prometheus.DefBuckets,
	})

	transactions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "txpool_transactions_found",
		Help: "Transactions observed during the run, by category",
	}, []string{"category"})

	addressesFound := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "txpool_addresses_found",
		Help: "Addresses observed during the run, counted once per category and response",
	})

	uniqueAddresses := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "txpool_unique_addresses",
		Help: "Distinct addresses observed during the run",
	})

	fieldOccurrences := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "txpool_field_occurrences",
		Help: "Transactions carrying a given field",
	}, []string{"field"})

	metrics := []prometheus.Collector{requestsSent, requestsFailed, responseDurations, transactions, addressesFound, uniqueAddresses, fieldOccurrences}
	if err := registerMetrics(logger, reg, metrics...); err != nil {
		logger.Info().Msg("using noop collector as metric register failed")
		return NewNoopCollector()
	}

	return &DefaultCollector{
		requestsSent:      requestsSent,
		requestsFailed:    requestsFailed,
		responseDurations: responseDurations,
		transactions:      transactions,
		addressesFound:    addressesFound,
		uniqueAddresses:   uniqueAddresses,
		fieldOccurrences:  fieldOccurrences,
	}
}

func registerMetrics(logger zerolog.Logger, reg prometheus.Registerer, metrics ...prometheus.Collector) error {
	for _, m := range metrics {
		if err := reg.Register(m); err != nil {
			logger.Err(err).Msg("failed to register metric")
			return err
		}
	}

	return nil
}

func (c *DefaultCollector) RequestSent() {
	c.requestsSent.Inc()
}

func (c *DefaultCollector) ResponseReceived(elapsed time.Duration) {
	c.responseDurations.Observe(elapsed.Seconds())
}

func (c *DefaultCollector) RequestFailed(kind mempool.FailureKind) {
	c.requestsFailed.With(prometheus.Labels{"kind": string(kind)}).Inc()
}

func (c *DefaultCollector) SnapshotUpdated(snap stats.Snapshot) {
	c.transactions.With(prometheus.Labels{"category": string(mempool.CategoryPending)}).Set(float64(snap.PendingCount))
	c.transactions.With(prometheus.Labels{"category": string(mempool.CategoryQueued)}).Set(float64(snap.QueuedCount))
	c.addressesFound.Set(float64(snap.AddressesFound))
	c.uniqueAddresses.Set(float64(snap.UniqueAddresses))
	for field, count := range snap.FieldCounts {
		c.fieldOccurrences.With(prometheus.Labels{"field": field}).Set(float64(count))
	}
}
