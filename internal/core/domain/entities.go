package domain

// Role represents a user role in the system
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// PaymentType classifies a settled installment relative to its due date
type PaymentType string

const (
	PaymentEarly  PaymentType = "EARLY"
	PaymentLate   PaymentType = "LATE"
	PaymentOnTime PaymentType = "ON_TIME"
)

// Principal identifies the acting user for access checks. It is always passed
// explicitly; services never read the authenticated user from shared state.
type Principal struct {
	UserID   uint
	Username string
	Role     Role
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
