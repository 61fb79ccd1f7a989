package model

import "time"

// BalanceResponse is the API view of the cached balance aggregate.
// Monetary values are rounded to two decimal places.
type BalanceResponse struct {
	TotalIncome  float64    `json:"totalIncome"`
	TotalExpense float64    `json:"totalExpense"`
	Balance      float64    `json:"balance"`
	LastUpdated  *time.Time `json:"lastUpdated"`
	IsStale      bool       `json:"isStale"`
}
