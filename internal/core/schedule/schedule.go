// Package schedule generates installment schedules for a new loan.
package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
)

// AllowedInstallmentCounts is the fixed set of valid installment counts.
var AllowedInstallmentCounts = map[int]bool{6: true, 9: true, 12: true, 24: true}

var (
	minRate = money.MustFromString("0.1")
	maxRate = money.MustFromString("0.5")
	one     = decimal.NewFromInt(1)
)

// Entry is one scheduled installment.
type Entry struct {
	Amount  decimal.Decimal
	DueDate time.Time
}

// Validate checks origination parameters against the allowed ranges.
func Validate(principal, rate decimal.Decimal, count int) error {
	if !AllowedInstallmentCounts[count] {
		return domain.ErrInvalidLoanParameters
	}
	if rate.LessThan(minRate) || rate.GreaterThan(maxRate) {
		return domain.ErrInvalidLoanParameters
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidLoanParameters
	}
	return nil
}

// Total computes the total repayable amount: round2(principal * (1 + rate)).
func Total(principal, rate decimal.Decimal) decimal.Decimal {
	return money.Round2(principal.Mul(one.Add(rate)))
}

// FirstDueDate returns the first day of the month following origination.
// Anchored to day 1 before adding the month so end-of-month dates cannot
// overflow into the month after next.
func FirstDueDate(origination time.Time) time.Time {
	return time.Date(origination.Year(), origination.Month()+1, 1, 0, 0, 0, 0, origination.Location())
}

// Generate produces the ordered installment schedule for the given
// parameters. Each installment carries round2(total / count); the rounding
// remainder is NOT reconciled into the last installment, so the sum of
// entries may differ from Total by at most count * 0.01.
func Generate(principal, rate decimal.Decimal, count int, firstDue time.Time) ([]Entry, error) {
	if err := Validate(principal, rate, count); err != nil {
		return nil, err
	}

	total := Total(principal, rate)
	per := money.Round2(total.Div(decimal.NewFromInt(int64(count))))

	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, Entry{
			Amount:  per,
			DueDate: firstDue.AddDate(0, i, 0),
		})
	}
	return entries, nil
}
