package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest represents the request body for creating a transaction.
// IsIncome is a pointer so a missing field can be told apart from false.
// Date is optional (YYYY-MM-DD) and defaults to today.
type CreateTransactionRequest struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	IsIncome    *bool           `json:"isIncome"`
	Date        string          `json:"date"`
}
