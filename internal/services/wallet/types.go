package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)

	// Cache metrics
	RecordCacheHit(key string)
	RecordCacheMiss(key string)

	// Error metrics
	RecordError(operation, errType string)

	// Credited volume
	RecordCredit(amount decimal.Decimal)
}
