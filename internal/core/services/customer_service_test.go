package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
	"lms-loanapi/internal/core/services"
)

func TestCustomerService_Create(t *testing.T) {
	f := newFixture(t)
	user := f.store.addUser(&models.User{Username: "new.customer", Role: string(domain.RoleCustomer), IsActive: true})

	input := &services.CreateCustomerInput{
		UserID:      user.ID,
		Name:        "New",
		Surname:     "Customer",
		CreditLimit: money.MustFromString("5000.00"),
	}

	// admin only
	_, err := f.customerService.Create(context.Background(), input, f.owner)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	customer, err := f.customerService.Create(context.Background(), input, f.admin)
	require.NoError(t, err)
	assert.Equal(t, "New", customer.Name)
	assert.True(t, money.MustFromString("5000.00").Equal(customer.CreditLimit))
	assert.True(t, customer.UsedCreditLimit.IsZero())
	assert.True(t, money.MustFromString("5000.00").Equal(customer.AvailableCreditLimit))
}

func TestCustomerService_Create_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.customerService.Create(context.Background(), &services.CreateCustomerInput{
		UserID:      f.owner.UserID,
		Name:        "",
		Surname:     "Doe",
		CreditLimit: money.MustFromString("5000.00"),
	}, f.admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.customerService.Create(context.Background(), &services.CreateCustomerInput{
		UserID:      f.owner.UserID,
		Name:        "John",
		Surname:     "Doe",
		CreditLimit: money.MustFromString("-1"),
	}, f.admin)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.customerService.Create(context.Background(), &services.CreateCustomerInput{
		UserID:      999,
		Name:        "Ghost",
		Surname:     "User",
		CreditLimit: money.MustFromString("1000.00"),
	}, f.admin)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCustomerService_Get(t *testing.T) {
	f := newFixture(t)

	customer, err := f.customerService.Get(context.Background(), f.customer.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, customer.ID)
	assert.True(t, money.MustFromString("10000.00").Equal(customer.AvailableCreditLimit))

	_, err = f.customerService.Get(context.Background(), f.customer.ID, f.stranger)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.customerService.Get(context.Background(), f.customer.ID, f.admin)
	assert.NoError(t, err)

	_, err = f.customerService.Get(context.Background(), 999, f.admin)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerService_List(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.customerService.List(context.Background(), 0, 20, f.owner)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	customers, total, err := f.customerService.List(context.Background(), 0, 20, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, customers, 1)
}
