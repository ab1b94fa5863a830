// Package testkit holds shared helpers for package tests: an in-memory
// database, a capturing mail sender, and an HTTP transport mock for the
// payment gateway clients.
package testkit

import (
	"testing"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/pkg/queue"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a fresh in-memory SQLite database with the full schema
// migrated. Each call gets its own database, so tests stay independent.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open in-memory sqlite")

	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.NewsletterSubscriber{},
		&models.ContactMessage{},
		&models.Banner{},
		&queue.FailedJobRecord{},
	)
	require.NoError(t, err, "migrate schema")

	return db
}
