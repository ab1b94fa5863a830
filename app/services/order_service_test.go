package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/payment/chapa"
	"github.com/ephremw/gebeya/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChapa struct {
	verifyResult chapa.VerifyResult
	verifyErr    error
	initCalls    int
	verifyCalls  int
}

func (f *fakeChapa) Initialize(req chapa.InitializeRequest) (string, error) {
	f.initCalls++
	return "https://checkout.chapa.co/pay/" + req.TxRef, nil
}

func (f *fakeChapa) Verify(txRef string) (chapa.VerifyResult, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return chapa.VerifyResult{}, f.verifyErr
	}
	res := f.verifyResult
	res.TxRef = txRef
	return res, nil
}

type fakePayPal struct {
	captureStatus string
	captureErr    error
}

func (f *fakePayPal) CreateOrder(total, currency string) (string, error) {
	return "PP-TEST-ORDER", nil
}

func (f *fakePayPal) CaptureOrder(orderID string) (string, error) {
	if f.captureErr != nil {
		return "", f.captureErr
	}
	return f.captureStatus, nil
}

type checkoutFixture struct {
	db      *gorm.DB
	svc     *services.OrderService
	chapa   *fakeChapa
	paypal  *fakePayPal
	user    models.User
	address models.Address
	product models.Product
}

// newCheckoutFixture seeds a user with one address and a cart holding two
// units of a 500 ETB product.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := testkit.OpenDB(t)

	f := &checkoutFixture{
		db:     db,
		chapa:  &fakeChapa{verifyResult: chapa.VerifyResult{Status: "success", Amount: 1000, Currency: "ETB"}},
		paypal: &fakePayPal{captureStatus: "COMPLETED"},
	}

	f.user = models.User{Name: "Sara Tesfaye", Email: "sara@example.com", Password: "x", Role: "user"}
	require.NoError(t, db.Create(&f.user).Error)

	f.address = models.Address{UserID: f.user.ID, FullName: "Sara Tesfaye", Street: "Bole Road", City: "Addis Ababa"}
	require.NoError(t, db.Create(&f.address).Error)

	f.product = models.Product{Name: "Classic Cotton Tee", Price: 500, Stock: 10}
	require.NoError(t, db.Create(&f.product).Error)

	cart := models.Cart{UserID: f.user.ID}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: cart.ID, ProductID: f.product.ID, Quantity: 2, Size: "M",
	}).Error)

	f.svc = services.NewOrderService(
		repositories.NewOrderRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewCartRepository(db),
		repositories.NewCouponRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewAddressRepository(db),
		f.chapa,
		f.paypal,
	)
	return f
}

func (f *checkoutFixture) input() services.CheckoutInput {
	return services.CheckoutInput{ShippingAddressID: f.address.ID}
}

func (f *checkoutFixture) addCoupon(t *testing.T, usageLimit int) models.Coupon {
	t.Helper()
	now := time.Now()
	coupon := models.Coupon{
		Code: "SAVE20", DiscountPercent: 20,
		ValidFrom: now.Add(-time.Hour), ValidTo: now.Add(time.Hour),
		UsageLimit: usageLimit,
	}
	require.NoError(t, f.db.Create(&coupon).Error)
	return coupon
}

func (f *checkoutFixture) reloadProduct(t *testing.T) models.Product {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, f.product.ID).Error)
	return p
}

func (f *checkoutFixture) cartItemCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.CartItem{}).Count(&n).Error)
	return n
}

func TestCheckoutCOD(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.svc.CreateDirect(f.user.ID, f.input(), models.PaymentMethodCOD, false)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 1000.0, order.Subtotal)
	assert.Equal(t, 1000.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Classic Cotton Tee", order.Items[0].Name)
	assert.Equal(t, 500.0, order.Items[0].Price)

	p := f.reloadProduct(t)
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, 2, p.Sold)
	assert.Zero(t, f.cartItemCount(t), "cart should be emptied")
}

func TestCheckoutWithCoupon(t *testing.T) {
	f := newCheckoutFixture(t)
	coupon := f.addCoupon(t, 5)

	in := f.input()
	in.CouponCode = coupon.Code
	order, err := f.svc.CreateDirect(f.user.ID, in, models.PaymentMethodCOD, false)
	require.NoError(t, err)

	assert.Equal(t, 200.0, order.Discount)
	assert.Equal(t, 800.0, order.Total)

	var reloaded models.Coupon
	require.NoError(t, f.db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsageCount)
}

func TestCheckoutCouponExhausted(t *testing.T) {
	f := newCheckoutFixture(t)
	coupon := f.addCoupon(t, 1)
	require.NoError(t, f.db.Model(&coupon).Update("usage_count", 1).Error)

	// An exhausted coupon fails the usability check before anything is
	// written, same as an expired one.
	in := f.input()
	in.CouponCode = coupon.Code
	_, err := f.svc.CreateDirect(f.user.ID, in, models.PaymentMethodCOD, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidCoupon)

	// Whole checkout rolled back: stock untouched, cart intact.
	p := f.reloadProduct(t)
	assert.Equal(t, 10, p.Stock)
	assert.EqualValues(t, 1, f.cartItemCount(t))
}

func TestCheckoutOutOfStock(t *testing.T) {
	f := newCheckoutFixture(t)
	require.NoError(t, f.db.Model(&f.product).Update("stock", 1).Error)

	_, err := f.svc.CreateDirect(f.user.ID, f.input(), models.PaymentMethodCOD, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrOutOfStock)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders, "failed checkout must not leave an order behind")
	assert.EqualValues(t, 1, f.cartItemCount(t))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	require.NoError(t, f.db.Where("1 = 1").Delete(&models.CartItem{}).Error)

	_, err := f.svc.CreateDirect(f.user.ID, f.input(), models.PaymentMethodCOD, false)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
}

func TestChapaPendingOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	order, checkoutURL, err := f.svc.CreateChapaPending(f.user.ID, "tx-abc-0001", "", f.input())
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.chapa.co/pay/tx-abc-0001", checkoutURL)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	// Stock and cart are untouched until the payment verifies.
	p := f.reloadProduct(t)
	assert.Equal(t, 10, p.Stock)
	assert.EqualValues(t, 1, f.cartItemCount(t))
}

func TestChapaDuplicateTxRef(t *testing.T) {
	f := newCheckoutFixture(t)

	_, _, err := f.svc.CreateChapaPending(f.user.ID, "tx-abc-0001", "", f.input())
	require.NoError(t, err)

	_, _, err = f.svc.CreateChapaPending(f.user.ID, "tx-abc-0001", "", f.input())
	assert.ErrorIs(t, err, services.ErrDuplicateTxRef)
}

func TestFinalizeChapa(t *testing.T) {
	f := newCheckoutFixture(t)

	pending, _, err := f.svc.CreateChapaPending(f.user.ID, "tx-abc-0002", "", f.input())
	require.NoError(t, err)
	f.chapa.verifyResult.Amount = pending.Total

	order, err := f.svc.FinalizeChapa("tx-abc-0002")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)

	p := f.reloadProduct(t)
	assert.Equal(t, 8, p.Stock)
	assert.Zero(t, f.cartItemCount(t))

	// Finalizing again is a no-op, not a second settlement.
	again, err := f.svc.FinalizeChapa("tx-abc-0002")
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)
	assert.Equal(t, 1, f.chapa.verifyCalls, "already-paid order must not be re-verified")
	assert.Equal(t, 8, f.reloadProduct(t).Stock)
}

func TestFinalizeChapaAmountMismatch(t *testing.T) {
	f := newCheckoutFixture(t)

	_, _, err := f.svc.CreateChapaPending(f.user.ID, "tx-abc-0003", "", f.input())
	require.NoError(t, err)
	f.chapa.verifyResult.Amount = 1 // shopper paid far less than the total

	_, err = f.svc.FinalizeChapa("tx-abc-0003")
	assert.ErrorIs(t, err, services.ErrAmountMismatch)

	var order models.Order
	require.NoError(t, f.db.Where("tx_ref = ?", "tx-abc-0003").First(&order).Error)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusFailed, order.Status)
	assert.Equal(t, 10, f.reloadProduct(t).Stock, "mismatch must not touch stock")
}

func TestFinalizeChapaVerifyError(t *testing.T) {
	f := newCheckoutFixture(t)

	_, _, err := f.svc.CreateChapaPending(f.user.ID, "tx-abc-0004", "", f.input())
	require.NoError(t, err)
	f.chapa.verifyErr = errors.New("gateway timeout")

	_, err = f.svc.FinalizeChapa("tx-abc-0004")
	require.Error(t, err)

	var order models.Order
	require.NoError(t, f.db.Where("tx_ref = ?", "tx-abc-0004").First(&order).Error)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
}

func TestFinalizeChapaUnknownTxRef(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.svc.FinalizeChapa("tx-never-seen")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCapturePayPal(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.svc.CapturePayPal(f.user.ID, "PP-TEST-ORDER", f.input())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodPayPal, order.PaymentMethod)
	assert.Equal(t, 8, f.reloadProduct(t).Stock)
}

func TestCapturePayPalRejected(t *testing.T) {
	f := newCheckoutFixture(t)
	f.paypal.captureStatus = "DECLINED"

	_, err := f.svc.CapturePayPal(f.user.ID, "PP-TEST-ORDER", f.input())
	assert.ErrorIs(t, err, services.ErrPaymentRejected)
	assert.Equal(t, 10, f.reloadProduct(t).Stock)
}

func TestUpdateStatusRejectsUnknownTransition(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.svc.CreateDirect(f.user.ID, f.input(), models.PaymentMethodCOD, false)
	require.NoError(t, err)

	require.Error(t, f.svc.UpdateStatus(order.ID, models.OrderStatus("paid-ish")))
	require.NoError(t, f.svc.UpdateStatus(order.ID, models.OrderStatusShipped))

	reloaded, err := f.svc.Get(order.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, reloaded.Status)
}
