package services

import (
	"context"
	"errors"
	"time"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/adapters/persistence/repositories"
	"lms-loanapi/internal/core/credit"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
	"lms-loanapi/internal/core/schedule"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanService handles loan origination and querying
type LoanService struct {
	loanRepo        repositories.LoanRepository
	customerRepo    repositories.CustomerRepository
	installmentRepo repositories.InstallmentRepository
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	customerRepo repositories.CustomerRepository,
	installmentRepo repositories.InstallmentRepository,
) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		customerRepo:    customerRepo,
		installmentRepo: installmentRepo,
	}
}

// CreateLoanInput represents create loan input
type CreateLoanInput struct {
	CustomerID           uint
	Amount               decimal.Decimal
	InterestRate         decimal.Decimal
	NumberOfInstallments int
}

// Create originates a loan: validate parameters, check access, reserve
// credit and persist the loan with its installment schedule as one unit.
// now supplies the origination timestamp; the first due date is the first
// day of the following month.
func (s *LoanService) Create(ctx context.Context, input *CreateLoanInput, principal domain.Principal, now time.Time) (*models.LoanResponse, error) {
	if err := schedule.Validate(input.Amount, input.InterestRate, input.NumberOfInstallments); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	if err := checkCustomerAccess(customer, principal); err != nil {
		return nil, err
	}

	total := schedule.Total(input.Amount, input.InterestRate)

	// Fast-fail before touching the ledger; the authoritative check runs
	// again under the customer row lock inside Originate.
	if _, err := credit.Reserve(customer.CreditLimit, customer.UsedCreditLimit, total); err != nil {
		return nil, err
	}

	entries, err := schedule.Generate(input.Amount, input.InterestRate, input.NumberOfInstallments, schedule.FirstDueDate(now))
	if err != nil {
		return nil, err
	}

	loan, err := s.loanRepo.Originate(ctx, customer.ID, func(locked *models.Customer) (*models.Loan, error) {
		newUsed, err := credit.Reserve(locked.CreditLimit, locked.UsedCreditLimit, total)
		if err != nil {
			return nil, err
		}
		locked.UsedCreditLimit = newUsed

		installments := make([]models.LoanInstallment, 0, len(entries))
		for _, entry := range entries {
			installments = append(installments, models.LoanInstallment{
				Amount:     entry.Amount,
				PaidAmount: money.Zero,
				DueDate:    entry.DueDate,
				IsPaid:     false,
			})
		}

		return &models.Loan{
			CustomerID:           locked.ID,
			LoanAmount:           input.Amount,
			NumberOfInstallments: input.NumberOfInstallments,
			InterestRate:         input.InterestRate,
			CreateDate:           now,
			IsPaid:               false,
			Installments:         installments,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	loan.Customer = customer
	return loan.ToResponse(0), nil
}

// List lists a customer's loans with optional filters on installment count
// and paid state.
func (s *LoanService) List(ctx context.Context, customerID uint, numberOfInstallments *int, isPaid *bool, principal domain.Principal) ([]*models.LoanResponse, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	if err := checkCustomerAccess(customer, principal); err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListByCustomer(ctx, customerID, numberOfInstallments, isPaid)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		paid, err := s.installmentRepo.CountPaidByLoanID(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, loan.ToResponse(paid))
	}
	return responses, nil
}

// ListInstallments lists a loan's installments in due-date order, numbered
// from 1.
func (s *LoanService) ListInstallments(ctx context.Context, loanID uint, principal domain.Principal) ([]*models.InstallmentResponse, error) {
	loan, err := s.loanRepo.GetByIDWithInstallments(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	if err := checkCustomerAccess(loan.Customer, principal); err != nil {
		return nil, err
	}

	responses := make([]*models.InstallmentResponse, 0, len(loan.Installments))
	for i := range loan.Installments {
		responses = append(responses, loan.Installments[i].ToResponse(i+1))
	}
	return responses, nil
}

// checkCustomerAccess allows admins, and customers acting on their own data.
// The acting principal is always an explicit argument.
func checkCustomerAccess(customer *models.Customer, principal domain.Principal) error {
	if customer == nil {
		return domain.ErrCustomerNotFound
	}
	if principal.IsAdmin() {
		return nil
	}
	if customer.UserID != principal.UserID {
		return domain.ErrAccessDenied
	}
	return nil
}
