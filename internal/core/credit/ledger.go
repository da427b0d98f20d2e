// Package credit implements the customer credit-limit ledger operations.
package credit

import (
	"github.com/shopspring/decimal"

	"lms-loanapi/internal/core/domain"
)

// Available returns the customer's remaining credit: limit - used.
func Available(limit, used decimal.Decimal) decimal.Decimal {
	return limit.Sub(used)
}

// Reserve returns the new used amount after reserving total against the
// limit. Exactly using up the limit is permitted. On failure the ledger is
// untouched and the error carries the available and required amounts.
func Reserve(limit, used, total decimal.Decimal) (decimal.Decimal, error) {
	available := Available(limit, used)
	if available.LessThan(total) {
		return used, &domain.InsufficientCreditError{
			Available: available,
			Required:  total,
		}
	}
	return used.Add(total), nil
}

// Release returns the new used amount after releasing the loan's original
// total repayable amount. Called exactly once, when the loan's last unpaid
// installment becomes paid; never driving used below zero is the caller's
// invariant.
func Release(used, total decimal.Decimal) decimal.Decimal {
	return used.Sub(total)
}
