/*
Package wallet owns the user's wallet balance.

The only mutation is Credit, which must run inside a transaction owned by
the caller so the balance moves together with whatever justified it:

	err := store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
	    // ... transition the deposit ...
	    return ledger.Credit(ctx, tx, userID, amount)
	})
	if err == nil {
	    ledger.InvalidateBalance(ctx, userID)
	}

Reads go through GetBalance, which serves from the balance cache when one
is configured and falls back to the database.

Metrics:

The service reports operation durations, cache hit/miss, credited volume
and errors through MetricsCollector.
*/
package wallet
