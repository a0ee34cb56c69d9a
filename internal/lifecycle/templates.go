package lifecycle

import (
	"fmt"

	"food-ordering-api/internal/model"
)

type template struct {
	title   string
	message string // fmt pattern, first verb is the short order ref
}

var statusTemplates = map[model.OrderStatus]template{
	model.StatusProcessing: {"Order Processing", "Your order #%s is now being prepared."},
	model.StatusShipped:    {"Order Shipped", "Your order #%s has been shipped and is on its way!"},
	model.StatusDelivered:  {"Order Delivered", "Your order #%s has been delivered. Enjoy your meal!"},
	model.StatusCancelled:  {"Order Cancelled", "Your order #%s has been cancelled."},
}

// StatusNotification returns the customer-facing title and message for a
// status change. Statuses without a dedicated template get the generic one.
func StatusNotification(status model.OrderStatus, ref string) (title, message string) {
	if t, ok := statusTemplates[status]; ok {
		return t.title, fmt.Sprintf(t.message, ref)
	}
	return "Order Status Updated", fmt.Sprintf("Your order #%s status has been updated to %s.", ref, status)
}

// PlacedNotification returns the title and message for a freshly created
// order.
func PlacedNotification(ref string) (title, message string) {
	return "Order Placed Successfully", fmt.Sprintf("Your order #%s has been received and is being processed.", ref)
}
