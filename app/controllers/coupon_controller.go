package controllers

import (
	"net/http"
	"time"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/response"
)

// CouponController lets shoppers preview a coupon and admins manage them.
type CouponController struct {
	coupons *repositories.CouponRepository
}

func NewCouponController(coupons *repositories.CouponRepository) *CouponController {
	return &CouponController{coupons: coupons}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

// Apply previews a coupon: returns the discount percent when the code is
// usable right now. Redemption only happens at checkout.
func (c *CouponController) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	coupon, err := c.coupons.FindByCode(req.Code)
	if err != nil || !coupon.UsableAt(time.Now()) {
		response.Error(w, http.StatusUnprocessableEntity, "Coupon is invalid or expired")
		return
	}

	response.Success(w, map[string]interface{}{
		"code":             coupon.Code,
		"discount_percent": coupon.DiscountPercent,
	})
}

// AdminList returns every coupon with usage counters.
func (c *CouponController) AdminList(w http.ResponseWriter, r *http.Request) {
	coupons, err := c.coupons.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load coupons")
		return
	}
	response.Success(w, coupons)
}

type couponRequest struct {
	Code            string  `json:"code" validate:"required,alpha_num,max=50"`
	DiscountPercent float64 `json:"discount_percent" validate:"required,numeric,gt=0,lte=100"`
	ValidFrom       string  `json:"valid_from" validate:"required,date"`
	ValidTo         string  `json:"valid_to" validate:"required,date"`
	UsageLimit      int     `json:"usage_limit" validate:"required,integer,gte=1"`
}

// AdminCreate adds a coupon.
func (c *CouponController) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	from, _ := time.Parse("2006-01-02", req.ValidFrom)
	to, _ := time.Parse("2006-01-02", req.ValidTo)
	if !to.After(from) {
		response.ValidationError(w, map[string]string{"valid_to": "must be after valid_from"})
		return
	}

	coupon := models.Coupon{
		Code:            req.Code,
		DiscountPercent: req.DiscountPercent,
		ValidFrom:       from,
		ValidTo:         to.Add(24*time.Hour - time.Second), // inclusive end day
		UsageLimit:      req.UsageLimit,
	}
	if err := c.coupons.Create(&coupon); err != nil {
		response.Error(w, http.StatusConflict, "Coupon code already exists")
		return
	}
	response.Created(w, coupon)
}

// AdminDelete removes a coupon.
func (c *CouponController) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.coupons.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete coupon")
		return
	}
	response.Message(w, "Coupon deleted")
}
