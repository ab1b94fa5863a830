package migrations

import (
	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/pkg/migration"
	"github.com/ephremw/gebeya/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260801000000_create_users_and_addresses", &CreateUsersAndAddresses{})
	migration.Register("20260801000001_create_catalog", &CreateCatalog{})
	migration.Register("20260801000002_create_carts", &CreateCarts{})
	migration.Register("20260801000003_create_orders_and_coupons", &CreateOrdersAndCoupons{})
	migration.Register("20260801000004_create_marketing", &CreateMarketing{})
	migration.Register("20260801000005_create_failed_jobs", &CreateFailedJobs{})
}

// -------- users, addresses --------

type CreateUsersAndAddresses struct{}

func (m *CreateUsersAndAddresses) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Address{})
}

func (m *CreateUsersAndAddresses) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("addresses", "users")
}

// -------- products, reviews --------

type CreateCatalog struct{}

func (m *CreateCatalog) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.Review{})
}

func (m *CreateCatalog) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reviews", "products")
}

// -------- carts --------

type CreateCarts struct{}

func (m *CreateCarts) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCarts) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items", "carts")
}

// -------- orders, order items, coupons --------

type CreateOrdersAndCoupons struct{}

func (m *CreateOrdersAndCoupons) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.Coupon{})
}

func (m *CreateOrdersAndCoupons) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders", "coupons")
}

// -------- newsletter, contact messages, banners --------

type CreateMarketing struct{}

func (m *CreateMarketing) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.NewsletterSubscriber{},
		&models.ContactMessage{},
		&models.Banner{},
	)
}

func (m *CreateMarketing) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("banners", "contact_messages", "newsletter_subscribers")
}

// -------- queue failed jobs --------

type CreateFailedJobs struct{}

func (m *CreateFailedJobs) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobs) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
