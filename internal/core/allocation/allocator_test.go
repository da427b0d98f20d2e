package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-loanapi/internal/core/allocation"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHorizon(t *testing.T) {
	// mid-month: 3 months ahead, snapped to the first of that month
	assert.Equal(t, date(2026, time.December, 1), allocation.Horizon(date(2026, time.September, 15)))

	// first of month
	assert.Equal(t, date(2026, time.December, 1), allocation.Horizon(date(2026, time.September, 1)))

	// year boundary
	assert.Equal(t, date(2027, time.February, 1), allocation.Horizon(date(2026, time.November, 20)))
}

func TestHorizon_EndOfMonthDoesNotOverflow(t *testing.T) {
	// Nov 30 + 3 months has no Feb 30; the horizon stays at Feb 1, it must
	// not slide into March
	assert.Equal(t, date(2027, time.February, 1), allocation.Horizon(date(2026, time.November, 30)))

	// Jan 31: no Apr 31, horizon is Apr 1 not May 1
	assert.Equal(t, date(2027, time.April, 1), allocation.Horizon(date(2027, time.January, 31)))

	// Dec 31 crosses the year into Mar 1
	assert.Equal(t, date(2027, time.March, 1), allocation.Horizon(date(2026, time.December, 31)))

	// end of a month whose target month is long enough is unaffected
	assert.Equal(t, date(2026, time.October, 1), allocation.Horizon(date(2026, time.July, 31)))
}

func TestPayable(t *testing.T) {
	installments := []allocation.Installment{
		{ID: 1, Amount: money.MustFromString("200.00"), DueDate: date(2026, time.October, 1)},
		{ID: 2, Amount: money.MustFromString("200.00"), DueDate: date(2026, time.November, 1)},
		{ID: 3, Amount: money.MustFromString("200.00"), DueDate: date(2026, time.December, 1)},
		{ID: 4, Amount: money.MustFromString("200.00"), DueDate: date(2027, time.January, 1)},
	}

	horizon := allocation.Horizon(date(2026, time.September, 15))
	eligible := allocation.Payable(installments, horizon)

	// December 1 is exactly on the horizon and stays in; January is out
	require.Len(t, eligible, 3)
	assert.Equal(t, uint(1), eligible[0].ID)
	assert.Equal(t, uint(3), eligible[2].ID)
}

func TestRequiredAmount_OnTime(t *testing.T) {
	due := date(2026, time.October, 1)
	required := allocation.RequiredAmount(money.MustFromString("200.00"), due, due)
	assert.True(t, money.MustFromString("200.00").Equal(required))
	assert.Equal(t, domain.PaymentOnTime, allocation.PaymentTypeFor(due, due))
}

func TestRequiredAmount_EarlyDiscount(t *testing.T) {
	due := date(2026, time.October, 11)
	today := date(2026, time.October, 1)

	// 200 * 0.001 * 10 days = 2.00 discount
	required := allocation.RequiredAmount(money.MustFromString("200.00"), due, today)
	assert.True(t, money.MustFromString("198.00").Equal(required), "got %s", required)
	assert.Equal(t, domain.PaymentEarly, allocation.PaymentTypeFor(due, today))
}

func TestRequiredAmount_LatePenalty(t *testing.T) {
	due := date(2026, time.October, 1)
	today := date(2026, time.October, 11)

	// 210 * 0.001 * 10 days = 2.10 penalty
	required := allocation.RequiredAmount(money.MustFromString("210.00"), due, today)
	assert.True(t, money.MustFromString("212.10").Equal(required), "got %s", required)
	assert.Equal(t, domain.PaymentLate, allocation.PaymentTypeFor(due, today))
}

func TestRequiredAmount_AdjustmentRounded(t *testing.T) {
	due := date(2026, time.October, 4)
	today := date(2026, time.October, 1)

	// 166.67 * 0.001 * 3 = 0.50001 -> rounds to 0.50
	required := allocation.RequiredAmount(money.MustFromString("166.67"), due, today)
	assert.True(t, money.MustFromString("166.17").Equal(required), "got %s", required)
}

func TestAllocate_TwoOnTimeInstallments(t *testing.T) {
	today := date(2026, time.October, 1)
	eligible := []allocation.Installment{
		{ID: 1, Amount: money.MustFromString("200.00"), DueDate: date(2026, time.October, 1)},
		{ID: 2, Amount: money.MustFromString("200.00"), DueDate: date(2026, time.November, 1)},
		{ID: 3, Amount: money.MustFromString("200.00"), DueDate: date(2026, time.December, 1)},
	}

	result := allocation.Allocate(money.MustFromString("400.00"), eligible, today)

	require.Len(t, result.Settlements, 2)
	assert.Equal(t, uint(1), result.Settlements[0].InstallmentID)
	assert.Equal(t, uint(2), result.Settlements[1].InstallmentID)

	// second installment is 31 days early: 200 - 200*0.001*31 = 193.80
	first := result.Settlements[0]
	assert.True(t, money.MustFromString("200.00").Equal(first.PaidAmount))
	assert.Equal(t, domain.PaymentOnTime, first.PaymentType)

	second := result.Settlements[1]
	assert.True(t, money.MustFromString("193.80").Equal(second.PaidAmount), "got %s", second.PaidAmount)
	assert.True(t, money.MustFromString("-6.20").Equal(second.DiscountOrPenalty))
	assert.Equal(t, domain.PaymentEarly, second.PaymentType)

	assert.True(t, money.MustFromString("393.80").Equal(result.TotalSpent))
	assert.True(t, money.MustFromString("6.20").Equal(result.Remaining))
}

func TestAllocate_StopsWhenNextUnaffordable(t *testing.T) {
	today := date(2026, time.October, 11)
	eligible := []allocation.Installment{
		{ID: 1, Amount: money.MustFromString("210.00"), DueDate: date(2026, time.October, 1)},
		{ID: 2, Amount: money.MustFromString("210.00"), DueDate: date(2026, time.November, 1)},
	}

	// first requires 212.10 (10 days late); 220 settles it, leaving 7.90
	result := allocation.Allocate(money.MustFromString("220.00"), eligible, today)

	require.Len(t, result.Settlements, 1)
	settlement := result.Settlements[0]
	assert.Equal(t, uint(1), settlement.InstallmentID)
	assert.True(t, money.MustFromString("212.10").Equal(settlement.PaidAmount), "got %s", settlement.PaidAmount)
	assert.True(t, money.MustFromString("2.10").Equal(settlement.DiscountOrPenalty))
	assert.Equal(t, domain.PaymentLate, settlement.PaymentType)

	assert.True(t, money.MustFromString("7.90").Equal(result.Remaining))
}

func TestAllocate_NeverSkipsAhead(t *testing.T) {
	today := date(2026, time.October, 1)
	eligible := []allocation.Installment{
		{ID: 1, Amount: money.MustFromString("300.00"), DueDate: date(2026, time.October, 1)},
		{ID: 2, Amount: money.MustFromString("100.00"), DueDate: date(2026, time.November, 1)},
	}

	// 150 covers the second installment but not the first; the pass stops
	result := allocation.Allocate(money.MustFromString("150.00"), eligible, today)

	assert.Empty(t, result.Settlements)
	assert.True(t, money.MustFromString("150.00").Equal(result.Remaining))
	assert.True(t, decimal.Zero.Equal(result.TotalSpent))
}

func TestAllocate_FullSchedule(t *testing.T) {
	today := date(2026, time.October, 1)
	eligible := []allocation.Installment{
		{ID: 1, Amount: money.MustFromString("100.00"), DueDate: date(2026, time.October, 1)},
		{ID: 2, Amount: money.MustFromString("100.00"), DueDate: date(2026, time.October, 1)},
	}

	result := allocation.Allocate(money.MustFromString("1000.00"), eligible, today)

	require.Len(t, result.Settlements, 2)
	assert.True(t, money.MustFromString("200.00").Equal(result.TotalSpent))
	assert.True(t, money.MustFromString("800.00").Equal(result.Remaining))
	for _, settlement := range result.Settlements {
		assert.Equal(t, today, settlement.PaymentDate)
	}
}
