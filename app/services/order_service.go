package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ephremw/gebeya/app/jobs"
	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/event"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/metrics"
	"github.com/ephremw/gebeya/pkg/payment/chapa"
	"github.com/ephremw/gebeya/pkg/queue"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidCoupon    = errors.New("coupon is invalid or expired")
	ErrInvalidAddress   = errors.New("shipping address not found")
	ErrDuplicateTxRef   = errors.New("transaction reference already used")
	ErrPaymentRejected  = errors.New("payment was not completed")
	ErrAmountMismatch   = errors.New("paid amount does not match order total")
	ErrOrderNotPending  = errors.New("order is not awaiting payment")
	ErrUnknownPayMethod = errors.New("unsupported payment method")
)

// EventOrderCompleted fires once per order that reaches paid (or COD
// confirmed) state. Payload is OrderCompleted.
const EventOrderCompleted = "order.completed"

// OrderCompleted is the payload carried by the order.completed event.
type OrderCompleted struct {
	Order models.Order
	User  models.User
}

// ChapaGateway is the slice of the Chapa client checkout needs.
// Tests substitute a fake.
type ChapaGateway interface {
	Initialize(req chapa.InitializeRequest) (string, error)
	Verify(txRef string) (chapa.VerifyResult, error)
}

// PayPalGateway is the slice of the PayPal client checkout needs.
type PayPalGateway interface {
	CreateOrder(total, currency string) (string, error)
	CaptureOrder(orderID string) (string, error)
}

// OrderService owns checkout. All stock, cart and coupon mutations happen
// inside a single database transaction per order, so a failure anywhere
// rolls the whole checkout back.
type OrderService struct {
	orders    *repositories.OrderRepository
	products  *repositories.ProductRepository
	carts     *repositories.CartRepository
	coupons   *repositories.CouponRepository
	users     *repositories.UserRepository
	addresses *repositories.AddressRepository

	chapa  ChapaGateway
	paypal PayPalGateway
}

func NewOrderService(
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
	carts *repositories.CartRepository,
	coupons *repositories.CouponRepository,
	users *repositories.UserRepository,
	addresses *repositories.AddressRepository,
	chapaGW ChapaGateway,
	paypalGW PayPalGateway,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		carts:     carts,
		coupons:   coupons,
		users:     users,
		addresses: addresses,
		chapa:     chapaGW,
		paypal:    paypalGW,
	}
}

// CheckoutInput is what every checkout variant starts from.
type CheckoutInput struct {
	ShippingAddressID uint
	CouponCode        string
}

// buildOrder turns the user's cart into an unsaved order: line items are
// snapshotted from live products and totals are computed, with the coupon
// discount applied when the code is currently usable. Nothing is written.
func (s *OrderService) buildOrder(userID uint, in CheckoutInput, method string) (models.Order, error) {
	cart, err := s.carts.ForUser(userID)
	if err != nil {
		return models.Order{}, err
	}
	if len(cart.Items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	if _, err := s.addresses.FindForUser(in.ShippingAddressID, userID); err != nil {
		return models.Order{}, ErrInvalidAddress
	}

	order := models.Order{
		UserID:            userID,
		PaymentMethod:     method,
		PaymentStatus:     models.PaymentStatusPending,
		Status:            models.OrderStatusPending,
		ShippingAddressID: in.ShippingAddressID,
		Currency:          "ETB",
	}

	for _, item := range cart.Items {
		image := ""
		if len(item.Product.Images) > 0 {
			image = item.Product.Images[0]
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Image:     image,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
		order.Subtotal += item.Product.Price * float64(item.Quantity)
	}

	if in.CouponCode != "" {
		coupon, err := s.coupons.FindByCode(in.CouponCode)
		if err != nil || !coupon.UsableAt(time.Now()) {
			return models.Order{}, ErrInvalidCoupon
		}
		order.CouponCode = coupon.Code
		order.DiscountPercent = coupon.DiscountPercent
		order.Discount = round2(order.Subtotal * coupon.DiscountPercent / 100)
	}

	order.Subtotal = round2(order.Subtotal)
	order.Total = round2(order.Subtotal - order.Discount)
	return order, nil
}

// settle runs the stock, coupon and cart mutations for an order inside tx.
// The guarded updates in the repositories make this safe under concurrent
// checkouts: the first error rolls everything back.
func (s *OrderService) settle(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		if err := s.products.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, repositories.ErrOutOfStock) {
				return fmt.Errorf("%w: %s", repositories.ErrOutOfStock, item.Name)
			}
			return err
		}
	}

	if order.CouponCode != "" {
		if err := s.orders.RedeemCoupon(tx, order.CouponCode, time.Now()); err != nil {
			return err
		}
	}

	return s.carts.Clear(tx, order.UserID)
}

// complete marks the order paid, fires the completion event and queues the
// confirmation email. Call after the settling transaction commits.
func (s *OrderService) complete(order models.Order) {
	metrics.OrdersCreated.WithLabelValues(order.PaymentMethod).Inc()
	if order.CouponCode != "" {
		metrics.CouponRedemptions.Inc()
	}

	user, err := s.users.FindByID(order.UserID)
	if err != nil {
		logger.Error("order: load user for completion", "order_id", order.ID, "error", err)
		return
	}

	if err := queue.Dispatch(&jobs.OrderConfirmationEmail{
		Email:    user.Email,
		Name:     user.Name,
		OrderID:  order.ID,
		Total:    order.Total,
		Currency: order.Currency,
	}); err != nil {
		logger.Error("order: dispatch confirmation email", "order_id", order.ID, "error", err)
	}

	event.FireAsync(EventOrderCompleted, OrderCompleted{Order: order, User: user})
}

// CreateDirect places an order that is settled immediately: cash on
// delivery, or PayPal after a successful capture. Stock decrement, coupon
// redemption, cart clear and order insert share one transaction.
func (s *OrderService) CreateDirect(userID uint, in CheckoutInput, method string, paid bool) (models.Order, error) {
	if method != models.PaymentMethodCOD && method != models.PaymentMethodPayPal {
		return models.Order{}, ErrUnknownPayMethod
	}

	order, err := s.buildOrder(userID, in, method)
	if err != nil {
		return models.Order{}, err
	}

	order.Status = models.OrderStatusCompleted
	if paid {
		order.PaymentStatus = models.PaymentStatusPaid
	}

	err = s.orders.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.orders.Create(tx, &order); err != nil {
			return err
		}
		return s.settle(tx, &order)
	})
	if err != nil {
		return models.Order{}, err
	}

	s.complete(order)
	return order, nil
}

// CreatePayPalOrder computes the cart total and opens a PayPal order for
// it, returning the gateway order ID for the storefront SDK. Nothing is
// persisted yet; CapturePayPal places the real order after approval.
func (s *OrderService) CreatePayPalOrder(userID uint, in CheckoutInput) (string, error) {
	order, err := s.buildOrder(userID, in, models.PaymentMethodPayPal)
	if err != nil {
		return "", err
	}
	return s.paypal.CreateOrder(fmt.Sprintf("%.2f", order.Total), "USD")
}

// CapturePayPal settles the approved PayPal order and, on COMPLETED,
// places the shop order as paid.
func (s *OrderService) CapturePayPal(userID uint, paypalOrderID string, in CheckoutInput) (models.Order, error) {
	status, err := s.paypal.CaptureOrder(paypalOrderID)
	if err != nil {
		metrics.PaymentsFinalized.WithLabelValues("paypal", "failed").Inc()
		return models.Order{}, err
	}
	if status != "COMPLETED" {
		metrics.PaymentsFinalized.WithLabelValues("paypal", "failed").Inc()
		return models.Order{}, fmt.Errorf("%w: paypal status %s", ErrPaymentRejected, status)
	}

	order, err := s.CreateDirect(userID, in, models.PaymentMethodPayPal, true)
	if err != nil {
		return models.Order{}, err
	}
	metrics.PaymentsFinalized.WithLabelValues("paypal", "paid").Inc()
	return order, nil
}

// CreateChapaPending records a pending order under the client-supplied
// tx_ref and opens a hosted Chapa checkout session. Stock is not touched
// until the payment verifies; a reused tx_ref is rejected so the endpoint
// is idempotent from the storefront's point of view.
func (s *OrderService) CreateChapaPending(userID uint, txRef, returnURL string, in CheckoutInput) (models.Order, string, error) {
	exists, err := s.orders.TxRefExists(txRef)
	if err != nil {
		return models.Order{}, "", err
	}
	if exists {
		return models.Order{}, "", ErrDuplicateTxRef
	}

	order, err := s.buildOrder(userID, in, models.PaymentMethodChapa)
	if err != nil {
		return models.Order{}, "", err
	}
	order.TxRef = &txRef

	if err := s.orders.Create(s.orders.DB(), &order); err != nil {
		// Unique index on tx_ref catches the race two concurrent
		// requests with the same ref would open.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Order{}, "", ErrDuplicateTxRef
		}
		return models.Order{}, "", err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return models.Order{}, "", err
	}
	first, last := splitName(user.Name)

	checkoutURL, err := s.chapa.Initialize(chapa.InitializeRequest{
		Amount:    fmt.Sprintf("%.2f", order.Total),
		Currency:  order.Currency,
		Email:     user.Email,
		FirstName: first,
		LastName:  last,
		TxRef:     txRef,
		ReturnURL: returnURL,
	})
	if err != nil {
		// The pending order stays in place; the storefront can retry
		// finalize or start over with a fresh tx_ref.
		return models.Order{}, "", err
	}

	return order, checkoutURL, nil
}

// FinalizeChapa verifies a transaction with Chapa and settles the pending
// order it belongs to. The call is idempotent: an already-paid order is
// returned as-is. A verify failure or an amount short of the stored total
// marks the order failed without touching stock.
func (s *OrderService) FinalizeChapa(txRef string) (models.Order, error) {
	order, err := s.orders.FindByTxRef(txRef)
	if err != nil {
		return models.Order{}, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}
	if order.Status != models.OrderStatusPending {
		return models.Order{}, ErrOrderNotPending
	}

	result, err := s.chapa.Verify(txRef)
	if err != nil {
		s.failOrder(&order)
		metrics.PaymentsFinalized.WithLabelValues("chapa", "failed").Inc()
		return models.Order{}, err
	}
	if result.Status != "success" {
		s.failOrder(&order)
		metrics.PaymentsFinalized.WithLabelValues("chapa", "failed").Inc()
		return models.Order{}, fmt.Errorf("%w: chapa status %s", ErrPaymentRejected, result.Status)
	}
	if math.Abs(result.Amount-order.Total) > 0.01 {
		s.failOrder(&order)
		metrics.PaymentsFinalized.WithLabelValues("chapa", "mismatch").Inc()
		logger.Warn("chapa: amount mismatch",
			"tx_ref", txRef, "expected", order.Total, "got", result.Amount)
		return models.Order{}, ErrAmountMismatch
	}

	err = s.orders.DB().Transaction(func(tx *gorm.DB) error {
		if err := s.settle(tx, &order); err != nil {
			return err
		}
		order.PaymentStatus = models.PaymentStatusPaid
		order.Status = models.OrderStatusCompleted
		return s.orders.Update(tx, &order)
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.PaymentsFinalized.WithLabelValues("chapa", "paid").Inc()
	s.complete(order)
	return order, nil
}

func (s *OrderService) failOrder(order *models.Order) {
	order.PaymentStatus = models.PaymentStatusFailed
	order.Status = models.OrderStatusFailed
	if err := s.orders.Update(nil, order); err != nil {
		logger.Error("order: mark failed", "order_id", order.ID, "error", err)
	}
}

// History returns the user's orders, newest first.
func (s *OrderService) History(userID uint) ([]models.Order, error) {
	return s.orders.ForUser(userID)
}

// Get returns one order scoped to its owner.
func (s *OrderService) Get(id, userID uint) (models.Order, error) {
	return s.orders.FindForUser(id, userID)
}

// All returns a page of every order for the admin console.
func (s *OrderService) All(page, limit int) ([]models.Order, int64, error) {
	return s.orders.All(page, limit)
}

// UpdateStatus moves an order through fulfilment (admin only).
func (s *OrderService) UpdateStatus(id uint, status models.OrderStatus) error {
	switch status {
	case models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return s.orders.UpdateStatus(id, status)
	default:
		return fmt.Errorf("cannot move order to status %q", status)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func splitName(full string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
