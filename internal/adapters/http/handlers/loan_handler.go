package handlers

import (
	"errors"
	"time"

	"lms-loanapi/internal/adapters/http/middleware"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/services"
	"lms-loanapi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan and payment endpoints
type LoanHandler struct {
	loanService    *services.LoanService
	paymentService *services.PaymentService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService, paymentService *services.PaymentService) *LoanHandler {
	return &LoanHandler{
		loanService:    loanService,
		paymentService: paymentService,
	}
}

// CreateLoanRequest represents create loan request body
type CreateLoanRequest struct {
	CustomerID           uint            `json:"customer_id"`
	Amount               decimal.Decimal `json:"amount"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	NumberOfInstallments int             `json:"number_of_installments"`
}

// PayLoanRequest represents pay loan request body
type PayLoanRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateLoan originates a loan
// @Summary Create loan
// @Description Originate a loan with its installment schedule
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var req CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateLoanInput{
		CustomerID:           req.CustomerID,
		Amount:               req.Amount,
		InterestRate:         req.InterestRate,
		NumberOfInstallments: req.NumberOfInstallments,
	}

	loan, err := h.loanService.Create(c.Context(), input, middleware.Principal(c), time.Now())
	if err != nil {
		return loanError(c, err, "Failed to create loan")
	}

	return response.Created(c, "Loan created successfully", loan)
}

// ListLoans lists a customer's loans
// @Summary List loans
// @Description List loans for a customer with optional filters
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param customer_id query int true "Customer ID"
// @Param number_of_installments query int false "Filter by installment count"
// @Param is_paid query bool false "Filter by paid state"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	customerID := c.QueryInt("customer_id")
	if customerID < 1 {
		return response.BadRequest(c, "customer_id query parameter is required")
	}

	var numberOfInstallments *int
	if c.Query("number_of_installments") != "" {
		n := c.QueryInt("number_of_installments")
		numberOfInstallments = &n
	}

	var isPaid *bool
	if raw := c.Query("is_paid"); raw != "" {
		v := c.QueryBool("is_paid")
		isPaid = &v
	}

	loans, err := h.loanService.List(c.Context(), uint(customerID), numberOfInstallments, isPaid, middleware.Principal(c))
	if err != nil {
		return loanError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans fetched successfully", loans)
}

// ListInstallments lists a loan's installments
// @Summary List installments
// @Description List a loan's installments in due-date order
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/installments [get]
func (h *LoanHandler) ListInstallments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	installments, err := h.loanService.ListInstallments(c.Context(), uint(id), middleware.Principal(c))
	if err != nil {
		return loanError(c, err, "Failed to list installments")
	}

	return response.Success(c, "Installments fetched successfully", installments)
}

// PayLoan applies a payment to a loan
// @Summary Pay loan
// @Description Apply a payment across the loan's payable installments
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body PayLoanRequest true "Payment amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/pay [post]
func (h *LoanHandler) PayLoan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req PayLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.paymentService.Pay(c.Context(), uint(id), req.Amount, time.Now(), middleware.Principal(c))
	if err != nil {
		return loanError(c, err, "Failed to process payment")
	}

	return response.Success(c, "Payment processed successfully", result)
}

// loanError maps domain errors to HTTP responses
func loanError(c *fiber.Ctx, err error, fallback string) error {
	var insufficientCredit *domain.InsufficientCreditError
	switch {
	case errors.Is(err, domain.ErrInvalidLoanParameters), errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrCustomerNotFound):
		return response.NotFound(c, "Customer not found")
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrAccessDenied):
		return response.Forbidden(c, "Access denied")
	case errors.As(err, &insufficientCredit):
		return response.UnprocessableEntity(c, insufficientCredit.Error())
	case errors.Is(err, domain.ErrLoanAlreadyPaid):
		return response.Conflict(c, "Loan is already fully paid")
	case errors.Is(err, domain.ErrNoPayableInstallments):
		return response.Conflict(c, "No installments payable within the next 3 months")
	default:
		return response.InternalServerError(c, fallback)
	}
}
