package wallet

import "time"

// Cache durations
const (
	BalanceCacheDuration = 5 * time.Minute
)

// Operation names used for metrics and logs
const (
	OpCredit     = "credit"
	OpGetBalance = "get_balance"
)
