// Package jobs defines the background email jobs dispatched through the
// queue so SMTP latency never blocks a request.
package jobs

import (
	"fmt"

	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/mail"
	"github.com/ephremw/gebeya/pkg/metrics"
	"github.com/ephremw/gebeya/pkg/queue"
)

// Register makes every job type known to the queue for deserialization.
// Call once at boot, before queue.StartWorkers.
func Register() {
	queue.Register("*jobs.ResetCodeEmail", func() queue.Job { return &ResetCodeEmail{} })
	queue.Register("*jobs.OrderConfirmationEmail", func() queue.Job { return &OrderConfirmationEmail{} })
	queue.Register("*jobs.ContactForwardEmail", func() queue.Job { return &ContactForwardEmail{} })
}

func record(kind string, err error) error {
	if err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "failed").Inc()
		return err
	}
	metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
	return nil
}

// ResetCodeEmail delivers a password-reset code.
type ResetCodeEmail struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (j *ResetCodeEmail) Handle() error {
	err := mail.To(j.Email).
		Subject("Your password reset code").
		Body(fmt.Sprintf(
			"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in 15 minutes. If you did not request a reset, ignore this email.</p>",
			j.Code,
		)).
		Send()
	return record("reset_code", err)
}

// OrderConfirmationEmail thanks the customer after a completed checkout.
type OrderConfirmationEmail struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	OrderID  uint    `json:"order_id"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

func (j *OrderConfirmationEmail) Handle() error {
	err := mail.To(j.Email).
		Subject(fmt.Sprintf("Order #%d confirmed", j.OrderID)).
		Body(fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for your purchase! Order <strong>#%d</strong> for <strong>%.2f %s</strong> is confirmed and being prepared.</p>",
			j.Name, j.OrderID, j.Total, j.Currency,
		)).
		Send()
	return record("order_confirmation", err)
}

// ContactForwardEmail forwards a contact-form submission to the shop inbox.
type ContactForwardEmail struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (j *ContactForwardEmail) Handle() error {
	err := mail.To(config.ShopInbox()).
		Subject("[Contact] " + j.Subject).
		Body(fmt.Sprintf(
			"<p>From: %s &lt;%s&gt;</p><hr><p>%s</p>",
			j.Name, j.Email, j.Body,
		)).
		Send()
	return record("contact_forward", err)
}
