package controllers

import (
	"net/http"

	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/response"
)

// NewsletterController handles list signup and admin campaign broadcasts.
type NewsletterController struct {
	service *services.NewsletterService
	subs    *repositories.NewsletterRepository
}

func NewNewsletterController(service *services.NewsletterService, subs *repositories.NewsletterRepository) *NewsletterController {
	return &NewsletterController{service: service, subs: subs}
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Subscribe adds an email to the list. Idempotent.
func (c *NewsletterController) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.Subscribe(req.Email); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not subscribe")
		return
	}
	response.Message(w, "Subscribed")
}

// Unsubscribe removes an email from the list.
func (c *NewsletterController) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.Unsubscribe(req.Email); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not unsubscribe")
		return
	}
	response.Message(w, "Unsubscribed")
}

// AdminList returns every subscriber.
func (c *NewsletterController) AdminList(w http.ResponseWriter, r *http.Request) {
	subs, err := c.subs.All()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load subscribers")
		return
	}
	response.Success(w, subs)
}

// AdminDelete removes a subscriber by id.
func (c *NewsletterController) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.subs.Delete(id); err != nil {
		response.NotFound(w)
		return
	}
	response.Message(w, "Subscriber removed")
}

type broadcastRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
}

// AdminBroadcast sends a campaign to every subscriber and returns the
// sent/failed tally. Blocks until the fan-out completes.
func (c *NewsletterController) AdminBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.service.Broadcast(req.Subject, req.Body)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Broadcast failed")
		return
	}
	response.Success(w, result)
}
