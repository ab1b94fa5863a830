package controllers

import (
	"net/http"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/middleware"
	"github.com/ephremw/gebeya/pkg/response"
)

// AddressController manages the user's shipping addresses.
type AddressController struct {
	addresses *repositories.AddressRepository
}

func NewAddressController(addresses *repositories.AddressRepository) *AddressController {
	return &AddressController{addresses: addresses}
}

type addressRequest struct {
	FullName  string `json:"full_name" validate:"required,max=255"`
	Phone     string `json:"phone" validate:"nullable,max=50"`
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=100"`
	Region    string `json:"region" validate:"nullable,max=100"`
	Zip       string `json:"zip" validate:"nullable,max=20"`
	IsDefault bool   `json:"is_default" validate:"boolean"`
}

func (req *addressRequest) apply(a *models.Address) {
	a.FullName = req.FullName
	a.Phone = req.Phone
	a.Street = req.Street
	a.City = req.City
	a.Region = req.Region
	a.Zip = req.Zip
	a.IsDefault = req.IsDefault
}

// List returns the user's addresses, default first.
func (c *AddressController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	addresses, err := c.addresses.ForUser(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load addresses")
		return
	}
	response.Success(w, addresses)
}

// Create stores a new address for the user.
func (c *AddressController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req addressRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	address := models.Address{UserID: userID}
	req.apply(&address)
	if err := c.addresses.Create(&address); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save address")
		return
	}
	response.Created(w, address)
}

// Update edits an address the user owns.
func (c *AddressController) Update(w http.ResponseWriter, r *http.Request) {
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

	address, err := c.addresses.FindForUser(id, userID)
	if err != nil {
		response.NotFound(w)
		return
	}

	var req addressRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	req.apply(&address)
	if err := c.addresses.Update(&address); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save address")
		return
	}
	response.Success(w, address)
}

// Delete removes an address the user owns.
func (c *AddressController) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := c.addresses.Delete(id, userID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete address")
		return
	}
	response.Message(w, "Address deleted")
}
