package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrWalletNotFound = errors.New("wallet owner not found")
	ErrNoTransaction  = errors.New("credit requires a transaction")
)
