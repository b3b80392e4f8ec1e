// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/database"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// Each connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// CreateUser inserts an active user whose password is "Password1".
func CreateUser(t testing.TB, db *gorm.DB, displayName string, role models.Role) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:        displayName + "@zombieland.test",
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateParkDate inserts a calendar day.
func CreateParkDate(t testing.TB, db *gorm.DB, day time.Time, open bool) models.ParkDate {
	t.Helper()

	pd := models.ParkDate{Day: models.DateOf(day), IsOpen: open}
	if err := db.Create(&pd).Error; err != nil {
		t.Fatalf("failed to create park date: %v", err)
	}
	return pd
}

// CreatePrice inserts a tariff.
func CreatePrice(t testing.TB, db *gorm.DB, typ models.PriceType, amount float64) models.Price {
	t.Helper()

	p := models.Price{Label: "Tarif " + string(typ), Type: typ, Amount: models.MoneyFromFloat(amount), DurationDays: 1}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create price: %v", err)
	}
	return p
}

// CreateCategory inserts a category.
func CreateCategory(t testing.TB, db *gorm.DB, name string) models.Category {
	t.Helper()

	c := models.Category{Name: name, Description: name + " description"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return c
}
