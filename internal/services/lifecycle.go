package services

import (
	"fmt"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// itemStatusRank orders the forward fulfilment chain. Cancelled sits
// outside the chain: it is reachable from Processing only.
var itemStatusRank = map[models.ItemStatus]int{
	models.ItemProcessing:     0,
	models.ItemShipped:        1,
	models.ItemOutForDelivery: 2,
	models.ItemDelivered:      3,
}

// ValidItemStatus reports whether s is a known line-item status.
func ValidItemStatus(s models.ItemStatus) bool {
	if s == models.ItemCancelled {
		return true
	}
	_, ok := itemStatusRank[s]
	return ok
}

// CanTransition reports whether a line item may move from one status to
// another. Forward moves along the chain may skip steps (a courier feed
// can jump straight to Delivered), but never run backwards, and nothing
// leaves a terminal state.
func CanTransition(from, to models.ItemStatus) bool {
	if to == models.ItemCancelled {
		return from == models.ItemProcessing
	}
	fromRank, ok := itemStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := itemStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// DeriveDeliveryStatus folds the line-item statuses into the order-level
// delivery status. It is the only place the derivation lives; callers
// recompute it after every item mutation and never set the field
// directly.
func DeriveDeliveryStatus(items []models.LineItem) models.DeliveryStatus {
	if len(items) == 0 {
		return models.DeliveryProcessing
	}

	cancelled, delivered, advanced := 0, 0, 0
	for _, item := range items {
		switch item.Status {
		case models.ItemCancelled:
			cancelled++
		case models.ItemDelivered:
			delivered++
			advanced++
		case models.ItemShipped, models.ItemOutForDelivery:
			advanced++
		}
	}

	switch {
	case cancelled == len(items):
		return models.DeliveryCancelled
	case delivered == len(items):
		return models.DeliveryDelivered
	case advanced == len(items):
		return models.DeliveryShipped
	case advanced > 0:
		return models.DeliveryPartiallyShipped
	default:
		return models.DeliveryProcessing
	}
}

// CheckCancellable decides whether an order may still be cancelled as a
// whole. Cancellation is all-or-nothing: the moment any item has left
// Processing the order is committed to fulfilment.
func CheckCancellable(order *models.Order) error {
	for _, item := range order.Items {
		if item.Status != models.ItemProcessing {
			return apperr.InvalidState(fmt.Sprintf("order %s cannot be cancelled: item %s is already %s", order.OrderID, item.ItemID, item.Status))
		}
	}
	return nil
}
