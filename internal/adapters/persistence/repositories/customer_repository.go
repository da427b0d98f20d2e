package repositories

import (
	"context"

	"lms-loanapi/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// customerRepository handles customer data access
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID gets a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUserID gets the customer profile owned by a user
func (r *customerRepository) GetByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update updates a customer
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// List lists customers with pagination
func (r *customerRepository) List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&customers).Error

	return customers, total, err
}
