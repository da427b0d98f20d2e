package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lms-loanapi/internal/core/schedule"
)

// ============================================================
// Auth tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'CUSTOMER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CustomerID *uint     `json:"customer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Loan servicing tables
// ============================================================

// Customer represents customers table. UsedCreditLimit moves up by a loan's
// total repayable amount at origination and back down by that same total when
// the loan becomes fully paid.
type Customer struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Surname         string          `gorm:"size:100;not null" json:"surname"`
	CreditLimit     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"credit_limit"`
	UsedCreditLimit decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"used_credit_limit"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
	Loans []Loan `gorm:"foreignKey:CustomerID" json:"loans,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// AvailableCreditLimit is the derived remaining credit.
func (c *Customer) AvailableCreditLimit() decimal.Decimal {
	return c.CreditLimit.Sub(c.UsedCreditLimit)
}

// CustomerResponse DTO
type CustomerResponse struct {
	ID                   uint            `json:"id"`
	Name                 string          `json:"name"`
	Surname              string          `json:"surname"`
	CreditLimit          decimal.Decimal `json:"credit_limit"`
	UsedCreditLimit      decimal.Decimal `json:"used_credit_limit"`
	AvailableCreditLimit decimal.Decimal `json:"available_credit_limit"`
	CreatedAt            time.Time       `json:"created_at"`
}

func (c *Customer) ToResponse() *CustomerResponse {
	return &CustomerResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Surname:              c.Surname,
		CreditLimit:          c.CreditLimit,
		UsedCreditLimit:      c.UsedCreditLimit,
		AvailableCreditLimit: c.AvailableCreditLimit(),
		CreatedAt:            c.CreatedAt,
	}
}

// Loan represents loans table. Installments are ordered by due date and are
// created atomically with the loan; they are never individually deleted.
type Loan struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	CustomerID           uint            `gorm:"not null;index" json:"customer_id"`
	LoanAmount           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"loan_amount"`
	NumberOfInstallments int             `gorm:"not null" json:"number_of_installments"`
	InterestRate         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	CreateDate           time.Time       `gorm:"not null" json:"create_date"`
	IsPaid               bool            `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Customer     *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Installments []LoanInstallment `gorm:"foreignKey:LoanID" json:"installments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// TotalAmount is the loan's total repayable amount. Delegates to the one
// rounding rule origination reserves with, so the credit release on payoff
// cannot diverge from the reservation.
func (l *Loan) TotalAmount() decimal.Decimal {
	return schedule.Total(l.LoanAmount, l.InterestRate)
}

// LoanInstallment represents loan_installments table. Amount is the
// originally scheduled value, fixed for life; PaidAmount is the actual cash
// received including the discount/penalty adjustment.
type LoanInstallment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	LoanID      uint            `gorm:"not null;index" json:"loan_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"paid_amount"`
	DueDate     time.Time       `gorm:"type:date;not null" json:"due_date"`
	PaymentDate *time.Time      `gorm:"type:date" json:"payment_date"`
	IsPaid      bool            `gorm:"not null;default:false" json:"is_paid"`

	// Relations
	Loan *Loan `gorm:"foreignKey:LoanID" json:"-"`
}

func (LoanInstallment) TableName() string {
	return "loan_installments"
}

// ============================================================
// DTOs
// ============================================================

// LoanResponse DTO
type LoanResponse struct {
	ID                    uint            `json:"id"`
	CustomerID            uint            `json:"customer_id"`
	CustomerName          string          `json:"customer_name,omitempty"`
	LoanAmount            decimal.Decimal `json:"loan_amount"`
	NumberOfInstallments  int             `json:"number_of_installments"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	CreateDate            time.Time       `json:"create_date"`
	IsPaid                bool            `json:"is_paid"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	PaidInstallments      int             `json:"paid_installments"`
	RemainingInstallments int             `json:"remaining_installments"`
}

// ToResponse builds the loan DTO given the count of paid installments.
func (l *Loan) ToResponse(paidInstallments int) *LoanResponse {
	resp := &LoanResponse{
		ID:                    l.ID,
		CustomerID:            l.CustomerID,
		LoanAmount:            l.LoanAmount,
		NumberOfInstallments:  l.NumberOfInstallments,
		InterestRate:          l.InterestRate,
		CreateDate:            l.CreateDate,
		IsPaid:                l.IsPaid,
		TotalAmount:           l.TotalAmount(),
		PaidInstallments:      paidInstallments,
		RemainingInstallments: l.NumberOfInstallments - paidInstallments,
	}
	if l.Customer != nil {
		resp.CustomerName = l.Customer.Name + " " + l.Customer.Surname
	}
	return resp
}

// InstallmentResponse DTO
type InstallmentResponse struct {
	ID                uint            `json:"id"`
	LoanID            uint            `json:"loan_id"`
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	DueDate           time.Time       `json:"due_date"`
	PaymentDate       *time.Time      `json:"payment_date"`
	IsPaid            bool            `json:"is_paid"`
}

// ToResponse builds the installment DTO with its 1-based position in the
// due-date-ordered schedule.
func (i *LoanInstallment) ToResponse(installmentNumber int) *InstallmentResponse {
	return &InstallmentResponse{
		ID:                i.ID,
		LoanID:            i.LoanID,
		InstallmentNumber: installmentNumber,
		Amount:            i.Amount,
		PaidAmount:        i.PaidAmount,
		DueDate:           i.DueDate,
		PaymentDate:       i.PaymentDate,
		IsPaid:            i.IsPaid,
	}
}

// InstallmentPaymentDetail records one installment settled by a payment call.
type InstallmentPaymentDetail struct {
	InstallmentID     uint            `json:"installment_id"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	DiscountOrPenalty decimal.Decimal `json:"discount_or_penalty"`
	PaymentType       string          `json:"payment_type"`
}

// PaymentResultResponse DTO
type PaymentResultResponse struct {
	InstallmentsPaid    int                        `json:"installments_paid"`
	TotalAmountSpent    decimal.Decimal            `json:"total_amount_spent"`
	IsLoanFullyPaid     bool                       `json:"is_loan_fully_paid"`
	RemainingLoanAmount decimal.Decimal            `json:"remaining_loan_amount"`
	PaidInstallments    []InstallmentPaymentDetail `json:"paid_installments"`
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Customer{},
		&Loan{},
		&LoanInstallment{},
	)
}
