package config

import (
	"log"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/pkg/password"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SeedData seeds the admin user and two demo customers. Idempotent: existing
// rows are left alone.
func SeedData(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	if err := seedCustomer(db, "john.doe", "John", "Doe", "10000.00"); err != nil {
		return err
	}
	if err := seedCustomer(db, "jane.smith", "Jane", "Smith", "15000.00"); err != nil {
		return err
	}

	log.Println("Seed data ready")
	return nil
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash("admin123")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Password: hashed,
		Role:     "ADMIN",
		IsActive: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("   Created admin user (username: admin)")
	return nil
}

func seedCustomer(db *gorm.DB, username, name, surname, creditLimit string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash("password123")
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Username: username,
			Password: hashed,
			Role:     "CUSTOMER",
			IsActive: true,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		customer := &models.Customer{
			UserID:          user.ID,
			Name:            name,
			Surname:         surname,
			CreditLimit:     decimal.RequireFromString(creditLimit),
			UsedCreditLimit: decimal.Zero,
		}
		if err := tx.Create(customer).Error; err != nil {
			return err
		}

		log.Printf("   Created customer %s %s (username: %s)", name, surname, username)
		return nil
	})
}
