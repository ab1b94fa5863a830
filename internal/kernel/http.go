// Package kernel assembles the HTTP stack: repositories, services,
// controllers, middleware and routes, in that order.
package kernel

import (
	"net/http"
	"time"

	"github.com/ephremw/gebeya/app/controllers"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/routes"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/metrics"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/payment/chapa"
	"github.com/ephremw/gebeya/pkg/payment/paypal"
	"github.com/ephremw/gebeya/pkg/reqid"
	"github.com/ephremw/gebeya/pkg/response"
	"github.com/ephremw/gebeya/pkg/router"
	"gorm.io/gorm"
)

// New wires the full HTTP kernel over the given database handle and
// returns the router, ready to serve.
func New(db *gorm.DB) *router.Router {
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	carts := repositories.NewCartRepository(db)
	orders := repositories.NewOrderRepository(db)
	coupons := repositories.NewCouponRepository(db)
	addresses := repositories.NewAddressRepository(db)
	newsletter := repositories.NewNewsletterRepository(db)
	messages := repositories.NewMessageRepository(db)
	banners := repositories.NewBannerRepository(db)

	authService := services.NewAuthService(users)
	orderService := services.NewOrderService(
		orders, products, carts, coupons, users, addresses,
		chapa.New(), paypal.New(),
	)
	newsletterService := services.NewNewsletterService(newsletter)

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		response.Message(w, "ok")
	})
	r.Handle("/metrics", metrics.Handler())

	routes.Register(r, routes.Controllers{
		Auth:       controllers.NewAuthController(authService, users),
		Users:      controllers.NewUserController(users),
		Products:   controllers.NewProductController(products, users),
		Carts:      controllers.NewCartController(carts, products),
		Addresses:  controllers.NewAddressController(addresses),
		Orders:     controllers.NewOrderController(orderService),
		Payments:   controllers.NewPaymentController(orderService),
		Coupons:    controllers.NewCouponController(coupons),
		Newsletter: controllers.NewNewsletterController(newsletterService, newsletter),
		Messages:   controllers.NewMessageController(messages),
		Banners:    controllers.NewBannerController(banners),
	})

	return r
}
