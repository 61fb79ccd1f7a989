package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single income or expense entry.
// Only Amount and IsIncome feed the balance; the rest is display data.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	IsIncome    bool            `json:"isIncome"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
