package repositories

import (
	"context"
	"time"

	"lms-loanapi/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// installmentRepository handles installment data access
type installmentRepository struct {
	db *gorm.DB
}

// NewInstallmentRepository creates a new installment repository
func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

// ListByLoanID lists a loan's installments ordered by due date ascending
func (r *installmentRepository) ListByLoanID(ctx context.Context, loanID uint) ([]*models.LoanInstallment, error) {
	var installments []*models.LoanInstallment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}

// CountPaidByLoanID counts a loan's paid installments
func (r *installmentRepository) CountPaidByLoanID(ctx context.Context, loanID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LoanInstallment{}).
		Where("loan_id = ? AND is_paid = ?", loanID, true).
		Count(&count).Error
	return int(count), err
}

// FindOverdue lists unpaid installments whose due date is before asOf,
// with the owning loan preloaded. Used by the reminder job.
func (r *installmentRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]*models.LoanInstallment, error) {
	var installments []*models.LoanInstallment
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("is_paid = ? AND due_date < ?", false, asOf).
		Order("due_date ASC").
		Find(&installments).Error
	return installments, err
}
