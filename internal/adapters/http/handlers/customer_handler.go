package handlers

import (
	"errors"

	"lms-loanapi/internal/adapters/http/middleware"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/services"
	"lms-loanapi/internal/pkg/pagination"
	"lms-loanapi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest represents create customer request body
type CreateCustomerRequest struct {
	UserID      uint            `json:"user_id"`
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CreateCustomer creates a customer profile with a credit limit
// @Summary Create customer
// @Description Create a customer profile with a credit limit (admin only)
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCustomerRequest true "Customer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.CreateCustomerInput{
		UserID:      req.UserID,
		Name:        req.Name,
		Surname:     req.Surname,
		CreditLimit: req.CreditLimit,
	}

	customer, err := h.customerService.Create(c.Context(), input, middleware.Principal(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccessDenied):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Name, surname and a non-negative credit limit are required")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to create customer")
		}
	}

	return response.Created(c, "Customer created successfully", customer)
}

// GetCustomer returns a customer by ID
// @Summary Get customer
// @Description Get a customer with the available credit limit
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid customer ID")
	}

	customer, err := h.customerService.Get(c.Context(), uint(id), middleware.Principal(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, domain.ErrAccessDenied):
			return response.Forbidden(c, "Access denied")
		default:
			return response.InternalServerError(c, "Failed to fetch customer")
		}
	}

	return response.Success(c, "Customer fetched successfully", customer)
}

// ListCustomers lists customers with pagination
// @Summary List customers
// @Description List customers with pagination (admin only)
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	customers, total, err := h.customerService.List(c.Context(), params.Offset, params.Limit, middleware.Principal(c))
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			return response.Forbidden(c, "Admin access required")
		}
		return response.InternalServerError(c, "Failed to list customers")
	}

	return response.Success(c, "Customers fetched successfully", pagination.NewResponse(customers, params, total))
}
