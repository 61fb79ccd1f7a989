package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment represents a tracked investment position.
// ProfitLoss is optional in storage; an absent value is reported as invalid
// rather than zero so callers can tell "not entered yet" from "broke even".
type Investment struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	ProfitLoss decimal.NullDecimal `json:"profitLoss"`
	CreatedAt  time.Time           `json:"createdAt,omitempty"`
}

// ProfitLossOrZero returns the recorded profit/loss, or zero when none was recorded.
func (i Investment) ProfitLossOrZero() decimal.Decimal {
	if !i.ProfitLoss.Valid {
		return decimal.Zero
	}
	return i.ProfitLoss.Decimal
}
