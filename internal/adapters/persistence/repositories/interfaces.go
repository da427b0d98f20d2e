package repositories

import (
	"context"
	"time"

	"lms-loanapi/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// CustomerRepository defines customer repository interface
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error)
}

// LoanRepository defines loan repository interface. Originate and Settle own
// the unit-of-work boundary: the callback runs inside a transaction holding
// row locks, and everything the callback mutates commits or rolls back as
// one. Originate locks the customer row (concurrent originations for the
// same customer serialize); Settle locks the loan and its customer
// (concurrent payments against the same loan serialize).
type LoanRepository interface {
	GetByIDWithInstallments(ctx context.Context, id uint) (*models.Loan, error)
	ListByCustomer(ctx context.Context, customerID uint, numberOfInstallments *int, isPaid *bool) ([]*models.Loan, error)
	Originate(ctx context.Context, customerID uint, build func(customer *models.Customer) (*models.Loan, error)) (*models.Loan, error)
	Settle(ctx context.Context, loanID uint, apply func(loan *models.Loan, customer *models.Customer) error) error
}

// InstallmentRepository defines installment repository interface
type InstallmentRepository interface {
	ListByLoanID(ctx context.Context, loanID uint) ([]*models.LoanInstallment, error)
	CountPaidByLoanID(ctx context.Context, loanID uint) (int, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]*models.LoanInstallment, error)
}
