// Package metrics exposes the Prometheus collectors behind the wallet and
// deposit MetricsCollector interfaces.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "ecom"

// Collector satisfies wallet.MetricsCollector and deposit.MetricsCollector.
type Collector struct {
	operationDuration *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	cache             *prometheus.CounterVec
	credited          prometheus.Counter
	depositsCreated   prometheus.Counter
	depositsProcessed *prometheus.CounterVec
}

// New builds the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of wallet and deposit operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed operations by kind.",
		}, []string{"operation", "kind"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by result.",
		}, []string{"key", "result"}),
		credited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_credited_amount_total",
			Help:      "Sum of amounts credited to wallets.",
		}),
		depositsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_created_total",
			Help:      "Deposit requests accepted.",
		}),
		depositsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_processed_total",
			Help:      "Deposits moved out of pending, by resulting status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.operationDuration,
		c.errors,
		c.cache,
		c.credited,
		c.depositsCreated,
		c.depositsProcessed,
	)
	return c
}

func (c *Collector) RecordOperationDuration(operation string, d time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *Collector) RecordError(operation, kind string) {
	c.errors.WithLabelValues(operation, kind).Inc()
}

func (c *Collector) RecordCacheHit(key string) {
	c.cache.WithLabelValues(key, "hit").Inc()
}

func (c *Collector) RecordCacheMiss(key string) {
	c.cache.WithLabelValues(key, "miss").Inc()
}

func (c *Collector) RecordCredit(amount decimal.Decimal) {
	c.credited.Add(amount.InexactFloat64())
}

func (c *Collector) RecordDepositCreated() {
	c.depositsCreated.Inc()
}

func (c *Collector) RecordDepositProcessed(status string) {
	c.depositsProcessed.WithLabelValues(status).Inc()
}
