package controllers

import (
	"errors"
	"net/http"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/response"
)

// OrderController serves checkout for cash on delivery plus order history
// and the admin order console. Gateway checkouts live in PaymentController.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type checkoutRequest struct {
	ShippingAddressID uint   `json:"shipping_address_id" validate:"required"`
	CouponCode        string `json:"coupon_code" validate:"nullable,max=50"`
}

// checkoutError maps the service errors onto HTTP statuses shared by every
// checkout variant.
func checkoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidAddress):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidCoupon):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repositories.ErrOutOfStock):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrCouponExhausted):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrDuplicateTxRef):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "Checkout failed")
	}
}

// Checkout places a cash-on-delivery order from the current cart.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req checkoutRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.CreateDirect(userID, services.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		CouponCode:        req.CouponCode,
	}, models.PaymentMethodCOD, false)
	if err != nil {
		checkoutError(w, err)
		return
	}
	response.Created(w, order)
}

// History returns the user's orders, newest first.
func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orders, err := c.service.History(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	response.Success(w, orders)
}

// Show returns one of the user's orders.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	order, err := c.service.Get(id, userID)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, order)
}

// AdminList returns a page of all orders.
func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	orders, total, err := c.service.All(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	response.Paginated(w, orders, response.NewPagination(page, limit, total))
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,in=shipped,delivered,cancelled"`
}

// AdminUpdateStatus moves an order through fulfilment.
func (c *OrderController) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var req orderStatusRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.UpdateStatus(id, models.OrderStatus(req.Status)); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	response.Message(w, "Order status updated")
}
