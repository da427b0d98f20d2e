package routes

import (
	"lms-loanapi/internal/adapters/http/handlers"
	"lms-loanapi/internal/adapters/http/middleware"
	"lms-loanapi/internal/adapters/persistence/repositories"
	"lms-loanapi/internal/config"
	"lms-loanapi/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	installmentRepo := repositories.NewInstallmentRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, customerRepo, cfg)
	customerService := services.NewCustomerService(customerRepo, userRepo)
	loanService := services.NewLoanService(loanRepo, customerRepo, installmentRepo)
	paymentService := services.NewPaymentService(loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	customerHandler := handlers.NewCustomerHandler(customerService)
	loanHandler := handlers.NewLoanHandler(loanService, paymentService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	customerRoutes := apiV1.Group("/customers")
	customerRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCustomerRoutes(customerRoutes, customerHandler)

	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupCustomerRoutes configures customer routes
func setupCustomerRoutes(router fiber.Router, handler *handlers.CustomerHandler) {
	// Admin only
	router.Post("/", middleware.AdminOnly(), handler.CreateCustomer)
	router.Get("/", middleware.AdminOnly(), handler.ListCustomers)

	// Owner or admin; the service enforces ownership
	router.Get("/:id", handler.GetCustomer)
}

// setupLoanRoutes configures loan and payment routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.CreateLoan)
	router.Get("/", handler.ListLoans)
	router.Get("/:id/installments", handler.ListInstallments)
	router.Post("/:id/pay", handler.PayLoan)
}
