package repositories

import (
	"context"

	"lms-loanapi/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository handles loan data access
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// GetByIDWithInstallments gets a loan with its customer and installments,
// installments ordered by due date ascending.
func (r *loanRepository) GetByIDWithInstallments(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByCustomer lists a customer's loans with optional filters
func (r *loanRepository) ListByCustomer(ctx context.Context, customerID uint, numberOfInstallments *int, isPaid *bool) ([]*models.Loan, error) {
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_id = ?", customerID)

	if numberOfInstallments != nil {
		query = query.Where("number_of_installments = ?", *numberOfInstallments)
	}
	if isPaid != nil {
		query = query.Where("is_paid = ?", *isPaid)
	}

	var loans []*models.Loan
	err := query.Order("created_at DESC").Find(&loans).Error
	return loans, err
}

// Originate creates a loan and its installments atomically with the credit
// reservation. The customer row is locked for the duration of the
// transaction, so concurrent originations against the same customer cannot
// both pass the credit check. build receives the locked customer, mutates its
// used credit limit and returns the loan to persist; any error rolls the
// whole unit back.
func (r *loanRepository) Originate(ctx context.Context, customerID uint, build func(customer *models.Customer) (*models.Loan, error)) (*models.Loan, error) {
	var created *models.Loan

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&customer, customerID).Error; err != nil {
			return err
		}

		loan, err := build(&customer)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Customer{}).
			Where("id = ?", customer.ID).
			Update("used_credit_limit", customer.UsedCreditLimit).Error; err != nil {
			return err
		}

		// Creates the installments through the association in the same insert
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		created = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Settle applies a payment's effects atomically. The loan row is locked
// first, then its customer, and the installments are read inside the same
// transaction, so two concurrent payments against one loan cannot settle the
// same installment or release credit twice. apply mutates the loan, its
// installments and the customer in memory; Settle persists exactly those
// rows.
func (r *loanRepository) Settle(ctx context.Context, loanID uint, apply func(loan *models.Loan, customer *models.Customer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, loanID).Error; err != nil {
			return err
		}

		var customer models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&customer, loan.CustomerID).Error; err != nil {
			return err
		}

		if err := tx.Where("loan_id = ?", loan.ID).
			Order("due_date ASC").
			Find(&loan.Installments).Error; err != nil {
			return err
		}
		loan.Customer = &customer

		if err := apply(&loan, &customer); err != nil {
			return err
		}

		for i := range loan.Installments {
			ins := &loan.Installments[i]
			if err := tx.Model(&models.LoanInstallment{}).
				Where("id = ?", ins.ID).
				Updates(map[string]interface{}{
					"paid_amount":  ins.PaidAmount,
					"payment_date": ins.PaymentDate,
					"is_paid":      ins.IsPaid,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Loan{}).
			Where("id = ?", loan.ID).
			Update("is_paid", loan.IsPaid).Error; err != nil {
			return err
		}

		return tx.Model(&models.Customer{}).
			Where("id = ?", customer.ID).
			Update("used_credit_limit", customer.UsedCreditLimit).Error
	})
}
