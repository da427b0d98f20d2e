package services_test

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"lms-loanapi/internal/adapters/persistence/models"
)

// store is a shared in-memory backing for the fake repositories.
type store struct {
	users     map[uint]*models.User
	customers map[uint]*models.Customer
	loans     map[uint]*models.Loan
	nextID    uint
}

func newStore() *store {
	return &store{
		users:     make(map[uint]*models.User),
		customers: make(map[uint]*models.Customer),
		loans:     make(map[uint]*models.Loan),
	}
}

func (s *store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *store) addUser(user *models.User) *models.User {
	user.ID = s.id()
	s.users[user.ID] = user
	return user
}

func (s *store) addCustomer(customer *models.Customer) *models.Customer {
	customer.ID = s.id()
	s.customers[customer.ID] = customer
	return customer
}

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.addUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

type fakeRefreshTokenRepo struct {
	tokens map[uint]*models.RefreshToken
	nextID uint
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[uint]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.nextID++
	token.ID = r.nextID
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			return token, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	token, ok := r.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	token.RevokedAt = &now
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	token, err := r.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil
	}
	return r.Revoke(ctx, token.ID)
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for id, token := range r.tokens {
		if time.Now().After(token.ExpiresAt) {
			delete(r.tokens, id)
		}
	}
	return nil
}

type fakeCustomerRepo struct{ s *store }

func (r *fakeCustomerRepo) Create(_ context.Context, customer *models.Customer) error {
	r.s.addCustomer(customer)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uint) (*models.Customer, error) {
	customer, ok := r.s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID uint) (*models.Customer, error) {
	for _, customer := range r.s.customers {
		if customer.UserID == userID {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *models.Customer) error {
	if _, ok := r.s.customers[customer.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *customer
	r.s.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	all := make([]*models.Customer, 0, len(r.s.customers))
	for _, customer := range r.s.customers {
		copied := *customer
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeLoanRepo struct{ s *store }

func (r *fakeLoanRepo) GetByIDWithInstallments(_ context.Context, id uint) (*models.Loan, error) {
	loan, ok := r.s.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *loan
	copied.Installments = append([]models.LoanInstallment(nil), loan.Installments...)
	sortInstallments(copied.Installments)
	if customer, ok := r.s.customers[loan.CustomerID]; ok {
		customerCopy := *customer
		copied.Customer = &customerCopy
	}
	return &copied, nil
}

func (r *fakeLoanRepo) ListByCustomer(_ context.Context, customerID uint, numberOfInstallments *int, isPaid *bool) ([]*models.Loan, error) {
	loans := make([]*models.Loan, 0)
	for _, loan := range r.s.loans {
		if loan.CustomerID != customerID {
			continue
		}
		if numberOfInstallments != nil && loan.NumberOfInstallments != *numberOfInstallments {
			continue
		}
		if isPaid != nil && loan.IsPaid != *isPaid {
			continue
		}
		copied := *loan
		loans = append(loans, &copied)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

func (r *fakeLoanRepo) Originate(_ context.Context, customerID uint, build func(*models.Customer) (*models.Loan, error)) (*models.Loan, error) {
	customer, ok := r.s.customers[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	locked := *customer
	loan, err := build(&locked)
	if err != nil {
		return nil, err
	}

	loan.ID = r.s.id()
	for i := range loan.Installments {
		loan.Installments[i].ID = r.s.id()
		loan.Installments[i].LoanID = loan.ID
	}
	r.s.loans[loan.ID] = loan
	*customer = locked
	return loan, nil
}

func (r *fakeLoanRepo) Settle(_ context.Context, loanID uint, apply func(*models.Loan, *models.Customer) error) error {
	loan, ok := r.s.loans[loanID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	customer, ok := r.s.customers[loan.CustomerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	lockedLoan := *loan
	lockedLoan.Installments = append([]models.LoanInstallment(nil), loan.Installments...)
	sortInstallments(lockedLoan.Installments)
	lockedCustomer := *customer

	if err := apply(&lockedLoan, &lockedCustomer); err != nil {
		return err
	}

	*loan = lockedLoan
	*customer = lockedCustomer
	return nil
}

type fakeInstallmentRepo struct{ s *store }

func (r *fakeInstallmentRepo) ListByLoanID(_ context.Context, loanID uint) ([]*models.LoanInstallment, error) {
	loan, ok := r.s.loans[loanID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	installments := make([]models.LoanInstallment, len(loan.Installments))
	copy(installments, loan.Installments)
	sortInstallments(installments)

	out := make([]*models.LoanInstallment, 0, len(installments))
	for i := range installments {
		out = append(out, &installments[i])
	}
	return out, nil
}

func (r *fakeInstallmentRepo) CountPaidByLoanID(_ context.Context, loanID uint) (int, error) {
	loan, ok := r.s.loans[loanID]
	if !ok {
		return 0, nil
	}
	paid := 0
	for i := range loan.Installments {
		if loan.Installments[i].IsPaid {
			paid++
		}
	}
	return paid, nil
}

func (r *fakeInstallmentRepo) FindOverdue(_ context.Context, asOf time.Time) ([]*models.LoanInstallment, error) {
	overdue := make([]*models.LoanInstallment, 0)
	for _, loan := range r.s.loans {
		for i := range loan.Installments {
			ins := loan.Installments[i]
			if !ins.IsPaid && ins.DueDate.Before(asOf) {
				overdue = append(overdue, &ins)
			}
		}
	}
	return overdue, nil
}

func sortInstallments(installments []models.LoanInstallment) {
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].DueDate.Before(installments[j].DueDate)
	})
}
