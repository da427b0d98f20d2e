package services

import (
	"context"
	"errors"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/adapters/persistence/repositories"
	"lms-loanapi/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerService handles customer profile management
type CustomerService struct {
	customerRepo repositories.CustomerRepository
	userRepo     repositories.UserRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repositories.CustomerRepository, userRepo repositories.UserRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		userRepo:     userRepo,
	}
}

// CreateCustomerInput represents create customer input
type CreateCustomerInput struct {
	UserID      uint
	Name        string
	Surname     string
	CreditLimit decimal.Decimal
}

// Create creates a customer profile with its credit limit. Admin only;
// limits are granted, not self-service.
func (s *CustomerService) Create(ctx context.Context, input *CreateCustomerInput, principal domain.Principal) (*models.CustomerResponse, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrAccessDenied
	}
	if input.Name == "" || input.Surname == "" || input.CreditLimit.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	customer := &models.Customer{
		UserID:          input.UserID,
		Name:            input.Name,
		Surname:         input.Surname,
		CreditLimit:     input.CreditLimit,
		UsedCreditLimit: decimal.Zero,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer.ToResponse(), nil
}

// Get returns a customer with the derived available credit
func (s *CustomerService) Get(ctx context.Context, id uint, principal domain.Principal) (*models.CustomerResponse, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}

	if err := checkCustomerAccess(customer, principal); err != nil {
		return nil, err
	}

	return customer.ToResponse(), nil
}

// List lists customers. Admin only.
func (s *CustomerService) List(ctx context.Context, offset, limit int, principal domain.Principal) ([]*models.CustomerResponse, int64, error) {
	if !principal.IsAdmin() {
		return nil, 0, domain.ErrAccessDenied
	}

	customers, total, err := s.customerRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, customer.ToResponse())
	}
	return responses, total, nil
}
