package validation

import (
	"strings"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api/request"
)

// ValidateCreateInvestment validates an investment creation request.
// Name is required, amount may not be negative, profitLoss is free-form.
func ValidateCreateInvestment(req request.CreateInvestmentRequest) error {
	verr := &Error{}

	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "name is required")
	} else if len(req.Name) > 100 {
		verr.Add("name", "name must be 100 characters or less")
	}

	if req.Amount.IsNegative() {
		verr.Add("amount", "amount cannot be negative")
	}

	return verr.OrNil()
}
