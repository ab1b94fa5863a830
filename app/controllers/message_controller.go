package controllers

import (
	"net/http"

	"github.com/ephremw/gebeya/app/jobs"
	"github.com/ephremw/gebeya/app/models"
	"github.com/ephremw/gebeya/app/repositories"
	"github.com/ephremw/gebeya/pkg/bind"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/queue"
	"github.com/ephremw/gebeya/pkg/response"
)

// MessageController handles the public contact form and the admin inbox.
type MessageController struct {
	messages *repositories.MessageRepository
}

func NewMessageController(messages *repositories.MessageRepository) *MessageController {
	return &MessageController{messages: messages}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required,max=5000"`
}

// Create stores a contact-form submission and forwards a copy to the shop
// inbox through the queue.
func (c *MessageController) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := c.messages.Create(&msg); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not send message")
		return
	}

	// The submission is already stored, so a queue hiccup is not fatal.
	if err := queue.Dispatch(&jobs.ContactForwardEmail{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}); err != nil {
		logger.Error("contact: dispatch forward email", "error", err)
	}

	response.Created(w, msg)
}

// AdminList returns a page of contact messages.
func (c *MessageController) AdminList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	messages, total, err := c.messages.All(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load messages")
		return
	}
	response.Paginated(w, messages, response.NewPagination(page, limit, total))
}

// AdminDelete removes a message from the inbox.
func (c *MessageController) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.messages.Delete(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete message")
		return
	}
	response.Message(w, "Message deleted")
}
