package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.RecordDepositCreated()
	c.RecordDepositCreated()
	c.RecordDepositProcessed("approved")
	c.RecordCredit(decimal.NewFromInt(500000))
	c.RecordCredit(decimal.RequireFromString("0.5"))
	c.RecordError("approve", "invalid_state")
	c.RecordCacheHit("get_balance")
	c.RecordCacheMiss("get_balance")
	c.RecordOperationDuration("approve", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.depositsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.depositsProcessed.WithLabelValues("approved")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.depositsProcessed.WithLabelValues("rejected")))
	assert.Equal(t, 500000.5, testutil.ToFloat64(c.credited))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("approve", "invalid_state")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cache.WithLabelValues("get_balance", "hit")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.operationDuration))
}
