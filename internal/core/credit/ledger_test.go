package credit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-loanapi/internal/core/credit"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
)

func TestAvailable(t *testing.T) {
	available := credit.Available(money.MustFromString("10000.00"), money.MustFromString("9500.00"))
	assert.True(t, money.MustFromString("500.00").Equal(available))
}

func TestReserve(t *testing.T) {
	limit := money.MustFromString("10000.00")

	newUsed, err := credit.Reserve(limit, money.MustFromString("2000.00"), money.MustFromString("1200.00"))
	require.NoError(t, err)
	assert.True(t, money.MustFromString("3200.00").Equal(newUsed))
}

func TestReserve_ExactLimitAllowed(t *testing.T) {
	limit := money.MustFromString("10000.00")

	newUsed, err := credit.Reserve(limit, money.MustFromString("9400.00"), money.MustFromString("600.00"))
	require.NoError(t, err)
	assert.True(t, limit.Equal(newUsed))
}

func TestReserve_InsufficientCredit(t *testing.T) {
	limit := money.MustFromString("10000.00")
	used := money.MustFromString("9500.00")

	newUsed, err := credit.Reserve(limit, used, money.MustFromString("600.00"))
	require.Error(t, err)

	var insufficient *domain.InsufficientCreditError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, money.MustFromString("500.00").Equal(insufficient.Available))
	assert.True(t, money.MustFromString("600.00").Equal(insufficient.Required))

	// ledger untouched on failure
	assert.True(t, used.Equal(newUsed))
}

func TestRelease(t *testing.T) {
	newUsed := credit.Release(money.MustFromString("3200.00"), money.MustFromString("1200.00"))
	assert.True(t, money.MustFromString("2000.00").Equal(newUsed))
}

func TestReserveThenRelease_RoundTrip(t *testing.T) {
	limit := money.MustFromString("10000.00")
	used := money.MustFromString("4321.09")
	total := money.MustFromString("1207.56")

	reserved, err := credit.Reserve(limit, used, total)
	require.NoError(t, err)

	released := credit.Release(reserved, total)
	assert.True(t, used.Equal(released))
}
