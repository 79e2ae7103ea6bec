// Package testdb opens a migrated in-memory SQLite database for tests.
package testdb

import (
	"testing"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/password"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a fresh database. One connection keeps the in-memory
// database alive and serializes transactions the way row locks would.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	password.Cost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// User inserts a verified account
func User(t *testing.T, db *gorm.DB, email string, role domain.Role, branch string) *models.User {
	t.Helper()
	hash, err := password.Hash("secret123")
	require.NoError(t, err)

	u := &models.User{Email: email, Password: hash, Role: role, Branch: branch, Verified: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Listing inserts an available listing owned by seller in seller's branch
func Listing(t *testing.T, db *gorm.DB, seller *models.User, price int64) *models.Listing {
	t.Helper()
	l := &models.Listing{
		Title:        "iPhone 13",
		Price:        price,
		Category:     domain.CategoryIPhone,
		Brand:        "iPhone 13",
		SellerID:     seller.ID,
		BranchOrigin: seller.Branch,
		Status:       domain.ListingAvailable,
		Negotiable:   true,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}
