package services

import (
	"context"
	"errors"
	"time"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/adapters/persistence/repositories"
	"lms-loanapi/internal/core/allocation"
	"lms-loanapi/internal/core/credit"
	"lms-loanapi/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService applies payments across a loan's installments
type PaymentService struct {
	loanRepo repositories.LoanRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(loanRepo repositories.LoanRepository) *PaymentService {
	return &PaymentService{loanRepo: loanRepo}
}

// Pay settles as many eligible installments as the amount covers, front to
// back in due-date order. Settled installments, the loan's paid flag and the
// credit release commit as one unit under the loan's row lock. today is an
// explicit input so callers control the clock.
func (s *PaymentService) Pay(ctx context.Context, loanID uint, amount decimal.Decimal, today time.Time, principal domain.Principal) (*models.PaymentResultResponse, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

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
	if loan.IsPaid {
		return nil, domain.ErrLoanAlreadyPaid
	}

	var resp *models.PaymentResultResponse

	err = s.loanRepo.Settle(ctx, loanID, func(locked *models.Loan, customer *models.Customer) error {
		// Preconditions are re-checked against the locked snapshot; a
		// concurrent payment may have finished the loan meanwhile.
		if locked.IsPaid {
			return domain.ErrLoanAlreadyPaid
		}

		horizon := allocation.Horizon(today)
		eligible := make([]allocation.Installment, 0, len(locked.Installments))
		for i := range locked.Installments {
			ins := &locked.Installments[i]
			if ins.IsPaid {
				continue
			}
			eligible = append(eligible, allocation.Installment{
				ID:      ins.ID,
				Amount:  ins.Amount,
				DueDate: ins.DueDate,
			})
		}
		eligible = allocation.Payable(eligible, horizon)
		if len(eligible) == 0 {
			return domain.ErrNoPayableInstallments
		}

		result := allocation.Allocate(amount, eligible, today)

		settledByID := make(map[uint]allocation.Settlement, len(result.Settlements))
		for _, st := range result.Settlements {
			settledByID[st.InstallmentID] = st
		}

		for i := range locked.Installments {
			ins := &locked.Installments[i]
			st, ok := settledByID[ins.ID]
			if !ok {
				continue
			}
			paymentDate := st.PaymentDate
			ins.PaidAmount = st.PaidAmount
			ins.PaymentDate = &paymentDate
			ins.IsPaid = true
		}

		// Full payoff is derived from ALL installments on the loan, not
		// just the ones touched by this call.
		allPaid := true
		remaining := decimal.Zero
		for i := range locked.Installments {
			if !locked.Installments[i].IsPaid {
				allPaid = false
				remaining = remaining.Add(locked.Installments[i].Amount)
			}
		}

		if allPaid {
			locked.IsPaid = true
			customer.UsedCreditLimit = credit.Release(customer.UsedCreditLimit, locked.TotalAmount())
		}

		details := make([]models.InstallmentPaymentDetail, 0, len(result.Settlements))
		for _, st := range result.Settlements {
			details = append(details, models.InstallmentPaymentDetail{
				InstallmentID:     st.InstallmentID,
				OriginalAmount:    st.OriginalAmount,
				PaidAmount:        st.PaidAmount,
				DiscountOrPenalty: st.DiscountOrPenalty,
				PaymentType:       string(st.PaymentType),
			})
		}

		resp = &models.PaymentResultResponse{
			InstallmentsPaid:    len(result.Settlements),
			TotalAmountSpent:    result.TotalSpent,
			IsLoanFullyPaid:     allPaid,
			RemainingLoanAmount: remaining,
			PaidInstallments:    details,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}
