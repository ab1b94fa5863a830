package controllers

import (
	"errors"
	"net/http"

	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/response"
	"gorm.io/gorm"
)

// PaymentController handles the Chapa redirect flow and the PayPal
// create/capture flow.
type PaymentController struct {
	service *services.OrderService
}

func NewPaymentController(service *services.OrderService) *PaymentController {
	return &PaymentController{service: service}
}

type chapaInitRequest struct {
	TxRef             string `json:"tx_ref" validate:"required,min=8,max=100"`
	ReturnURL         string `json:"return_url" validate:"nullable,url"`
	ShippingAddressID uint   `json:"shipping_address_id" validate:"required"`
	CouponCode        string `json:"coupon_code" validate:"nullable,max=50"`
}

// ChapaInitialize records a pending order under the client-generated
// tx_ref and returns the hosted checkout URL. A reused tx_ref is a 409.
func (c *PaymentController) ChapaInitialize(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req chapaInitRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, checkoutURL, err := c.service.CreateChapaPending(userID, req.TxRef, req.ReturnURL, services.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		checkoutError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"order":        order,
		"checkout_url": checkoutURL,
	})
}

type chapaVerifyRequest struct {
	TxRef string `json:"tx_ref" validate:"required,min=8,max=100"`
}

// ChapaVerify finalizes a pending order after the shopper returns from the
// hosted checkout. Safe to call more than once for the same tx_ref.
func (c *PaymentController) ChapaVerify(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromCtx(r); !ok {
		response.Unauthorized(w)
		return
	}

	var req chapaVerifyRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.FinalizeChapa(req.TxRef)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrAmountMismatch),
			errors.Is(err, services.ErrPaymentRejected),
			errors.Is(err, services.ErrOrderNotPending):
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			checkoutError(w, err)
		}
		return
	}
	response.Success(w, order)
}

type paypalCreateRequest struct {
	ShippingAddressID uint   `json:"shipping_address_id" validate:"required"`
	CouponCode        string `json:"coupon_code" validate:"nullable,max=50"`
}

// PayPalCreate opens a PayPal order for the cart total and returns its ID
// for the storefront SDK approval step.
func (c *PaymentController) PayPalCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req paypalCreateRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	paypalOrderID, err := c.service.CreatePayPalOrder(userID, services.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		checkoutError(w, err)
		return
	}
	response.Created(w, map[string]string{"paypal_order_id": paypalOrderID})
}

type paypalCaptureRequest struct {
	PayPalOrderID     string `json:"paypal_order_id" validate:"required"`
	ShippingAddressID uint   `json:"shipping_address_id" validate:"required"`
	CouponCode        string `json:"coupon_code" validate:"nullable,max=50"`
}

// PayPalCapture settles the approved PayPal order and places the shop
// order as paid.
func (c *PaymentController) PayPalCapture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req paypalCaptureRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.CapturePayPal(userID, req.PayPalOrderID, services.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		if errors.Is(err, services.ErrPaymentRejected) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		checkoutError(w, err)
		return
	}
	response.Created(w, order)
}
