package validation

import (
	"strings"
	"time"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
)

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - amount: Must be positive
//   - isIncome: Must be present
//
// Optional fields:
//   - date: Must be in YYYY-MM-DD format if provided
//   - description: 500 characters or less
//   - category: 100 characters or less
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	verr := &Error{}

	if !req.Amount.IsPositive() {
		verr.Add("amount", "amount must be positive")
	}

	if req.IsIncome == nil {
		verr.Add("isIncome", "isIncome is required")
	}

	if strings.TrimSpace(req.Date) != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			verr.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	if len(req.Description) > 500 {
		verr.Add("description", "description must be 500 characters or less")
	}

	if len(req.Category) > 100 {
		verr.Add("category", "category must be 100 characters or less")
	}

	return verr.OrNil()
}
