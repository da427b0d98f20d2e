package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"lms-loanapi/internal/adapters/http/middleware"
	"lms-loanapi/internal/adapters/http/routes"
	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/adapters/persistence/repositories"
	"lms-loanapi/internal/config"
	"lms-loanapi/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "lms-loanapi/docs" // Swagger docs
)

// @title LMS Loan API
// @version 1.0
// @description Loan management API: customers, credit limits, loans, installments and payments.

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed admin and demo customers
	if err := config.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed data: %v", err)
	}

	// Daily overdue-installment reminders (08:30)
	reminderService := services.NewReminderService(repositories.NewInstallmentRepository(db))
	reminderService.Start()
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LMS Loan API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
