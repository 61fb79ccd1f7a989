package request

import "github.com/shopspring/decimal"

// CreateInvestmentRequest represents the request body for creating an investment.
type CreateInvestmentRequest struct {
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	ProfitLoss decimal.NullDecimal `json:"profitLoss"`
}

// UpdateProfitLossRequest sets an investment's profit/loss; null clears it.
type UpdateProfitLossRequest struct {
	ProfitLoss decimal.NullDecimal `json:"profitLoss"`
}
