// Package routes wires the HTTP API onto the router.
package routes

import (
	"time"

	"github.com/ephremw/gebeya/app/controllers"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/rbac"
	"github.com/ephremw/gebeya/pkg/router"
)

// Controllers bundles every handler the API mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Products   *controllers.ProductController
	Carts      *controllers.CartController
	Addresses  *controllers.AddressController
	Orders     *controllers.OrderController
	Payments   *controllers.PaymentController
	Coupons    *controllers.CouponController
	Newsletter *controllers.NewsletterController
	Messages   *controllers.MessageController
	Banners    *controllers.BannerController
}

// Register mounts the storefront, account and admin route groups.
func Register(r *router.Router, c Controllers) {
	api := r.Group("/api")

	// Public storefront.
	api.Get("/products", "products.index", c.Products.List)
	api.Get("/products/top", "products.top", c.Products.TopRated)
	api.Get("/products/{id}", "products.show", c.Products.Show)
	api.Get("/banners", "banners.index", c.Banners.List)
	api.Post("/coupons/apply", "coupons.apply", c.Coupons.Apply)
	api.Post("/newsletter/subscribe", "newsletter.subscribe", c.Newsletter.Subscribe)
	api.Post("/newsletter/unsubscribe", "newsletter.unsubscribe", c.Newsletter.Unsubscribe)
	api.Post("/contact", "contact.create", c.Messages.Create)

	// Session endpoints. Login and register are rate limited per IP to slow
	// credential stuffing; the reset flow gets the same treatment.
	authLimit := middleware.RateLimit(10, time.Minute)
	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", c.Auth.Register, authLimit, middleware.MaybeAuth, rbac.Guest)
	auth.Post("/login", "auth.login", c.Auth.Login, authLimit, middleware.MaybeAuth, rbac.Guest)
	auth.Post("/refresh-token", "auth.refresh", c.Auth.Refresh)
	auth.Get("/check-access", "auth.check", c.Auth.CheckAccess, middleware.Auth)
	auth.Post("/forgot-password", "auth.forgot", c.Auth.ForgotPassword, authLimit)
	auth.Post("/verify-reset-code", "auth.verify_reset", c.Auth.VerifyResetCode, authLimit)
	auth.Post("/reset-password", "auth.reset", c.Auth.ResetPassword, authLimit)
	auth.Post("/logout", "auth.logout", c.Auth.Logout, middleware.Auth)

	// Authenticated storefront.
	account := api.Group("", middleware.Auth)
	account.Get("/me", "me.show", c.Auth.Me)

	account.Get("/cart", "cart.show", c.Carts.Show)
	account.Post("/cart/items", "cart.add", c.Carts.AddItem)
	account.Put("/cart/items/{itemID}", "cart.update", c.Carts.UpdateItem)
	account.Delete("/cart/items/{itemID}", "cart.remove", c.Carts.RemoveItem)
	account.Delete("/cart", "cart.clear", c.Carts.Clear)

	account.Get("/addresses", "addresses.index", c.Addresses.List)
	account.Post("/addresses", "addresses.create", c.Addresses.Create)
	account.Put("/addresses/{id}", "addresses.update", c.Addresses.Update)
	account.Delete("/addresses/{id}", "addresses.delete", c.Addresses.Delete)

	account.Post("/products/{id}/reviews", "products.review", c.Products.AddReview)

	account.Post("/orders", "orders.checkout", c.Orders.Checkout)
	account.Get("/orders", "orders.index", c.Orders.History)
	account.Get("/orders/{id}", "orders.show", c.Orders.Show)

	account.Post("/payments/chapa/initialize", "payments.chapa.init", c.Payments.ChapaInitialize)
	account.Post("/payments/chapa/verify", "payments.chapa.verify", c.Payments.ChapaVerify)
	account.Post("/payments/paypal/create", "payments.paypal.create", c.Payments.PayPalCreate)
	account.Post("/payments/paypal/capture", "payments.paypal.capture", c.Payments.PayPalCapture)

	// Admin console.
	admin := api.Group("/admin", middleware.Auth, rbac.HasRole("admin"))

	admin.Post("/products", "admin.products.create", c.Products.Create)
	admin.Put("/products/{id}", "admin.products.update", c.Products.Update)
	admin.Delete("/products/{id}", "admin.products.delete", c.Products.Delete)
	admin.Post("/products/upload", "admin.products.upload", c.Products.UploadImage)

	admin.Get("/orders", "admin.orders.index", c.Orders.AdminList)
	admin.Patch("/orders/{id}/status", "admin.orders.status", c.Orders.AdminUpdateStatus)

	admin.Get("/coupons", "admin.coupons.index", c.Coupons.AdminList)
	admin.Post("/coupons", "admin.coupons.create", c.Coupons.AdminCreate)
	admin.Delete("/coupons/{id}", "admin.coupons.delete", c.Coupons.AdminDelete)

	admin.Get("/newsletter", "admin.newsletter.index", c.Newsletter.AdminList)
	admin.Delete("/newsletter/{id}", "admin.newsletter.delete", c.Newsletter.AdminDelete)
	admin.Post("/newsletter/broadcast", "admin.newsletter.broadcast", c.Newsletter.AdminBroadcast)

	admin.Get("/messages", "admin.messages.index", c.Messages.AdminList)
	admin.Delete("/messages/{id}", "admin.messages.delete", c.Messages.AdminDelete)

	admin.Get("/banners", "admin.banners.index", c.Banners.AdminList)
	admin.Post("/banners", "admin.banners.create", c.Banners.AdminCreate)
	admin.Put("/banners/{id}", "admin.banners.update", c.Banners.AdminUpdate)
	admin.Delete("/banners/{id}", "admin.banners.delete", c.Banners.AdminDelete)

	admin.Get("/users", "admin.users.index", c.Users.AdminList)
	admin.Patch("/users/{id}/role", "admin.users.role", c.Users.AdminSetRole)
}
