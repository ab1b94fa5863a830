package controllers

import (
	"net/http"

	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/response"
)

// BannerController serves the storefront banner strip and the admin CRUD.
type BannerController struct {
	banners *repositories.BannerRepository
}

func NewBannerController(banners *repositories.BannerRepository) *BannerController {
	return &BannerController{banners: banners}
}

// List returns the active banners in position order.
func (c *BannerController) List(w http.ResponseWriter, r *http.Request) {
	banners, err := c.banners.Active()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load banners")
		return
	}
	response.Success(w, banners)
}

// AdminList returns every banner including inactive ones.
func (c *BannerController) AdminList(w http.ResponseWriter, r *http.Request) {
	banners, err := c.banners.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load banners")
		return
	}
	response.Success(w, banners)
}

type bannerRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Image    string `json:"image" validate:"required,max=500"`
	Link     string `json:"link" validate:"nullable,url"`
	Position int    `json:"position" validate:"nullable,integer,gte=0"`
	Active   bool   `json:"active" validate:"boolean"`
}

func (req *bannerRequest) apply(b *models.Banner) {
	b.Title = req.Title
	b.Image = req.Image
	b.Link = req.Link
	b.Position = req.Position
	b.Active = req.Active
}

// AdminCreate adds a banner.
func (c *BannerController) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var banner models.Banner
	req.apply(&banner)
	if err := c.banners.Create(&banner); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not create banner")
		return
	}
	response.Created(w, banner)
}

// AdminUpdate edits a banner.
func (c *BannerController) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	banner, err := c.banners.FindByID(id)
	if err != nil {
		response.NotFound(w)
		return
	}

	var req bannerRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	req.apply(&banner)
	if err := c.banners.Update(&banner); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update banner")
		return
	}
	response.Success(w, banner)
}

// AdminDelete removes a banner.
func (c *BannerController) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.banners.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete banner")
		return
	}
	response.Message(w, "Banner deleted")
}
