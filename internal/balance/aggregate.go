// Package balance maintains the cached income/expense/net balance aggregate.
//
// The aggregate is computed from every transaction and investment in the record
// store, kept in memory, and written through to a persistent key/value cache so a
// restarted process can answer immediately. A Service owns the single in-memory
// copy; all reads and writes go through it.
package balance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Aggregate is the computed balance plus its cache metadata.
// NetBalance always pairs with the TotalIncome/TotalExpense it was derived from.
type Aggregate struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetBalance   decimal.Decimal
	LastUpdated  time.Time // zero when absent
	Stale        bool      // forced staleness, independent of age
}

// Snapshot is an aggregate as handed to a caller, with the staleness verdict
// evaluated at read time.
type Snapshot struct {
	Aggregate
	IsStale bool
}

// TransactionDelta is the part of a new transaction the incremental updater needs.
type TransactionDelta struct {
	IsIncome bool
	Amount   decimal.Decimal
}
