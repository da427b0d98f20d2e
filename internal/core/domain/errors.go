package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAccessDenied       = errors.New("you don't have permission to access this customer's data")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
)

// Loan errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrLoanNotFound          = errors.New("loan not found")
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")
	ErrLoanAlreadyPaid       = errors.New("loan is already fully paid")
	ErrNoPayableInstallments = errors.New("no payable installments found")
)

// InsufficientCreditError reports a failed credit reservation together with
// the available and required amounts for diagnostics.
type InsufficientCreditError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("insufficient credit limit. Available: %s, Required: %s",
		e.Available.StringFixed(2), e.Required.StringFixed(2))
}
