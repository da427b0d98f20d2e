// Package allocation applies a payment across a loan's eligible installments.
package allocation

import (
	"time"

	"github.com/shopspring/decimal"

	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
)

// Policy constants. Fixed for every loan, not configurable.
const (
	// MaxPayableMonthsAhead bounds how far into the future an installment
	// may be settled.
	MaxPayableMonthsAhead = 3
)

// DailyAdjustmentRate is the discount/penalty rate per day of early/late
// payment (0.1%, symmetric).
var DailyAdjustmentRate = money.MustFromString("0.001")

// Installment is the allocator's view of an unpaid installment.
type Installment struct {
	ID      uint
	Amount  decimal.Decimal
	DueDate time.Time
}

// Settlement records one installment settled by a payment.
type Settlement struct {
	InstallmentID     uint
	OriginalAmount    decimal.Decimal
	PaidAmount        decimal.Decimal
	DiscountOrPenalty decimal.Decimal
	PaymentType       domain.PaymentType
	PaymentDate       time.Time
}

// Result is the outcome of a single allocation pass.
type Result struct {
	Settlements []Settlement
	TotalSpent  decimal.Decimal
	Remaining   decimal.Decimal
}

// Horizon returns the payability horizon for a payment made today: the first
// day of the month MaxPayableMonthsAhead months out. Anchored to day 1 before
// adding the months so an end-of-month today cannot overflow into the month
// after next. Installments due after it cannot be settled even with funds
// left.
func Horizon(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month()+MaxPayableMonthsAhead, 1, 0, 0, 0, 0, today.Location())
}

// Payable filters installments down to those due on or before the horizon,
// preserving order. The input must already exclude paid installments.
func Payable(installments []Installment, horizon time.Time) []Installment {
	eligible := make([]Installment, 0, len(installments))
	for _, ins := range installments {
		if !ins.DueDate.After(horizon) {
			eligible = append(eligible, ins)
		}
	}
	return eligible
}

// RequiredAmount computes the cash needed to settle an installment today:
// the scheduled amount minus a discount when paid early, plus a penalty when
// paid late, at DailyAdjustmentRate per day.
func RequiredAmount(amount decimal.Decimal, dueDate, today time.Time) decimal.Decimal {
	days := daysBetween(today, dueDate)
	switch {
	case days > 0:
		discount := money.Round2(amount.Mul(DailyAdjustmentRate).Mul(decimal.NewFromInt(days)))
		return amount.Sub(discount)
	case days < 0:
		penalty := money.Round2(amount.Mul(DailyAdjustmentRate).Mul(decimal.NewFromInt(-days)))
		return amount.Add(penalty)
	default:
		return amount
	}
}

// PaymentTypeFor classifies a settlement relative to the due date.
func PaymentTypeFor(dueDate, today time.Time) domain.PaymentType {
	days := daysBetween(today, dueDate)
	switch {
	case days > 0:
		return domain.PaymentEarly
	case days < 0:
		return domain.PaymentLate
	default:
		return domain.PaymentOnTime
	}
}

// Allocate walks the eligible installments in due-date order and greedily
// settles them front to back. The pass stops entirely as soon as the
// remaining amount cannot cover the next installment's required amount;
// partial settlement of a single installment is never allowed and later,
// cheaper installments are never skipped ahead to.
func Allocate(amount decimal.Decimal, eligible []Installment, today time.Time) Result {
	result := Result{
		Settlements: []Settlement{},
		TotalSpent:  decimal.Zero,
		Remaining:   amount,
	}

	for _, ins := range eligible {
		if result.Remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		required := RequiredAmount(ins.Amount, ins.DueDate, today)
		if result.Remaining.LessThan(required) {
			break
		}

		result.Remaining = result.Remaining.Sub(required)
		result.TotalSpent = result.TotalSpent.Add(required)
		result.Settlements = append(result.Settlements, Settlement{
			InstallmentID:     ins.ID,
			OriginalAmount:    ins.Amount,
			PaidAmount:        required,
			DiscountOrPenalty: required.Sub(ins.Amount),
			PaymentType:       PaymentTypeFor(ins.DueDate, today),
			PaymentDate:       today,
		})
	}

	return result
}

// daysBetween returns whole days from a to b, positive when b is later.
// Both inputs are treated as calendar dates.
func daysBetween(a, b time.Time) int64 {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int64(bd.Sub(ad).Hours() / 24)
}
