// Package lifecycle drives orders through the fixed status sequence
// PENDING → PROCESSING → SHIPPED → DELIVERED on time thresholds, emitting at
// most one notification per transition.
package lifecycle

import (
	"time"

	"food-ordering-api/internal/model"
)

// Thresholds holds the minimum age per transition edge.
type Thresholds struct {
	PendingToProcessing time.Duration
	ProcessingToShipped time.Duration
	ShippedToDelivered  time.Duration
}

// Next decides whether an order in the given status, with the given reference
// timestamp, is due for promotion at instant now. It promotes at most one step
// per call and never considers terminal states. Pure function, no side
// effects.
func Next(status model.OrderStatus, ref, now time.Time, th Thresholds) (model.OrderStatus, bool) {
	switch status {
	case model.StatusPending:
		if now.Sub(ref) >= th.PendingToProcessing {
			return model.StatusProcessing, true
		}
	case model.StatusProcessing:
		if now.Sub(ref) >= th.ProcessingToShipped {
			return model.StatusShipped, true
		}
	case model.StatusShipped:
		if now.Sub(ref) >= th.ShippedToDelivered {
			return model.StatusDelivered, true
		}
	}
	return "", false
}

// Reference returns the timestamp an order's age is measured from: creation
// for PENDING, the last status change otherwise.
func Reference(o *model.Order) time.Time {
	if o.Status == model.StatusPending {
		return o.CreatedAt
	}
	return o.UpdatedAt
}
