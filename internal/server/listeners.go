package server

import (
	"fmt"

	"github.com/ephremw/gebeya/app/services"
	"github.com/ephremw/gebeya/config"
	"github.com/ephremw/gebeya/pkg/event"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/notification"
)

// orderAlert is the ops-side notification for a completed order. The
// customer's confirmation email goes through the queue separately.
type orderAlert struct {
	completed services.OrderCompleted
}

func (a *orderAlert) Via() []string {
	channels := []string{"slack"}
	if config.Get("ORDER_WEBHOOK_URL", "") != "" {
		channels = append(channels, "webhook")
	}
	return channels
}

func (a *orderAlert) ToSlack() notification.SlackData {
	o := a.completed.Order
	return notification.SlackData{
		Text: fmt.Sprintf("Order #%d completed", o.ID),
		Attachments: []notification.SlackAttachment{{
			Color: "good",
			Title: fmt.Sprintf("%.2f %s via %s", o.Total, o.Currency, o.PaymentMethod),
			Text:  fmt.Sprintf("%d items for %s", len(o.Items), a.completed.User.Email),
		}},
	}
}

func (a *orderAlert) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL:     config.Get("ORDER_WEBHOOK_URL", ""),
		Payload: a.completed.Order,
	}
}

// registerListeners hooks domain events to their side effects.
func registerListeners() {
	event.Listen(services.EventOrderCompleted, func(payload interface{}) {
		completed, ok := payload.(services.OrderCompleted)
		if !ok {
			return
		}
		if config.Get("SLACK_WEBHOOK_URL", "") == "" && config.Get("ORDER_WEBHOOK_URL", "") == "" {
			return
		}
		if errs := notification.Send(completed.User.Email, &orderAlert{completed: completed}); len(errs) > 0 {
			logger.Warn("order alert delivery incomplete", "order_id", completed.Order.ID, "errors", len(errs))
		}
	})
}
