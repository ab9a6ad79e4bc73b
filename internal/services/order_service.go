package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// OrderService owns the order lifecycle: checkout, cancellation,
// fulfilment updates and owner-scoped reads. Derived fields (identifiers,
// delivery status, total) are always computed here before an explicit
// store write; nothing relies on persistence-layer hooks.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	cart     CartStore
}

// NewOrderService constructs OrderService.
func NewOrderService(orders OrderStore, products ProductStore, cart CartStore) *OrderService {
	return &OrderService{orders: orders, products: products, cart: cart}
}

// LineItemRequest is one explicit product+quantity pair in a checkout.
type LineItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// ShippingAddress is the denormalized snapshot stored on the order. It
// is taken from the request and never re-read from an address book.
type ShippingAddress struct {
	Line      string
	Apartment string
	City      string
	District  string
	Phone     string
}

// Checkout creates an order for the user. Explicit items are re-priced
// against the live catalog; when no explicit items are given the user's
// cart is converted instead, keeping the cart's snapshotted prices, and
// the cart is cleared only after the order is durably created. The total
// is always computed server-side from the resolved items.
func (s *OrderService) Checkout(userID uuid.UUID, items []LineItemRequest, payment models.PaymentStatus, addr ShippingAddress) (*models.Order, error) {
	fromCart := len(items) == 0

	var lineItems []models.LineItem
	var err error
	if fromCart {
		lineItems, err = s.resolveCartItems(userID)
	} else {
		lineItems, err = s.resolveExplicitItems(items)
	}
	if err != nil {
		return nil, err
	}
	if len(lineItems) == 0 {
		return nil, apperr.Validation("order has no resolvable items")
	}

	if payment != models.PaymentPaid {
		payment = models.PaymentPending
	}

	order := &models.Order{
		UserID:            userID,
		Items:             lineItems,
		PaymentStatus:     payment,
		ShippingLine:      addr.Line,
		ShippingApartment: addr.Apartment,
		ShippingCity:      addr.City,
		ShippingDistrict:  addr.District,
		ShippingPhone:     addr.Phone,
	}

	var total float64
	for _, item := range order.Items {
		total += item.Subtotal()
	}
	order.TotalAmount = total
	order.DeliveryStatus = DeriveDeliveryStatus(order.Items)

	if err := AssignIdentifiers(order, s.orders.OrderIDTaken); err != nil {
		return nil, apperr.Internal("failed to assign order identifiers", err)
	}

	if err := s.orders.Create(order); err != nil {
		return nil, apperr.Internal("failed to create order", err)
	}

	if fromCart {
		if err := s.cart.Clear(userID); err != nil {
			log.Printf("[Order] failed to clear cart for user %s after order %s: %v", userID, order.OrderID, err)
		}
	}

	return order, nil
}

func (s *OrderService) resolveExplicitItems(items []LineItemRequest) ([]models.LineItem, error) {
	resolved := make([]models.LineItem, 0, len(items))
	for _, req := range items {
		if req.Quantity < 1 || req.ProductID == uuid.Nil {
			continue
		}
		product, err := s.products.ByID(req.ProductID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		resolved = append(resolved, lineItemFor(product, req.Quantity, product.Price))
	}
	return resolved, nil
}

func (s *OrderService) resolveCartItems(userID uuid.UUID) ([]models.LineItem, error) {
	cartItems, err := s.cart.ItemsByUser(userID)
	if err != nil {
		return nil, apperr.Internal("failed to load cart", err)
	}

	resolved := make([]models.LineItem, 0, len(cartItems))
	for _, entry := range cartItems {
		if entry.Quantity < 1 {
			continue
		}
		product, err := s.products.ByID(entry.ProductID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		// Cart keeps the price snapshotted at add time.
		resolved = append(resolved, lineItemFor(product, entry.Quantity, entry.Price))
	}
	return resolved, nil
}

func lineItemFor(product *models.Product, quantity int, price float64) models.LineItem {
	return models.LineItem{
		ProductID:  product.ID,
		SellerID:   product.SellerID,
		SellerName: product.SellerName,
		StoreName:  product.StoreName,
		Quantity:   quantity,
		Price:      price,
		Status:     models.ItemProcessing,
	}
}

// Get resolves an order by human-readable identifier or storage key and
// enforces ownership. Orders missing identifiers (legacy records) are
// repaired and persisted once on the way out.
func (s *OrderService) Get(ref string, requesterID uuid.UUID, requesterRole string) (*models.Order, error) {
	order, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID && requesterRole != models.RoleAdmin {
		return nil, apperr.Forbidden("order belongs to another user")
	}

	if err := s.backfill(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) resolve(ref string) (*models.Order, error) {
	if IsOrderID(ref) {
		return s.orders.ByOrderID(ref)
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, apperr.Validation("invalid order reference")
	}
	return s.orders.ByKey(id)
}

// ListMine returns the user's orders newest first.
func (s *OrderService) ListMine(userID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	orders, total, err := s.orders.ByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list orders", err)
	}

	for i := range orders {
		if err := s.backfill(&orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (s *OrderService) backfill(order *models.Order) error {
	changed, err := BackfillIdentifiers(order, s.orders.OrderIDTaken)
	if err != nil {
		return apperr.Internal("failed to backfill identifiers", err)
	}
	if !changed {
		return nil
	}
	if err := s.orders.Save(order); err != nil {
		// A concurrent writer repaired it first; the loaded copy is
		// already complete, so the read can proceed.
		if errors.Is(err, apperr.ErrConflict) {
			return nil
		}
		return err
	}
	return nil
}

// Cancel cancels the whole order on behalf of its owner. Allowed only
// while every item is still Processing; on success all items become
// Cancelled and the cancellation timestamp is stamped. Irreversible.
func (s *OrderService) Cancel(ref string, requesterID uuid.UUID) (*models.Order, error) {
	order, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID {
		return nil, apperr.Forbidden("order belongs to another user")
	}
	if err := CheckCancellable(order); err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range order.Items {
		order.Items[i].Status = models.ItemCancelled
	}
	order.DeliveryStatus = DeriveDeliveryStatus(order.Items)
	order.CancelledAt = &now

	if err := s.orders.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

// TrackingUpdate carries optional courier details on a fulfilment update.
type TrackingUpdate struct {
	Courier        string
	TrackingNumber string
}

// UpdateItemStatus applies a fulfilment transition to one line item on
// behalf of its seller, then recomputes the order-level delivery status.
func (s *OrderService) UpdateItemStatus(ref, itemID string, sellerID uuid.UUID, status models.ItemStatus, tracking TrackingUpdate) (*models.Order, error) {
	if !ValidItemStatus(status) {
		return nil, apperr.Validation(fmt.Sprintf("unknown item status %q", status))
	}

	order, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}

	item := findItem(order, itemID)
	if item == nil {
		return nil, apperr.NotFound("line item not found")
	}
	if item.SellerID != sellerID {
		return nil, apperr.Forbidden("line item belongs to another seller")
	}
	if !CanTransition(item.Status, status) {
		return nil, apperr.InvalidState(fmt.Sprintf("item %s cannot move from %s to %s", item.ItemID, item.Status, status))
	}

	now := time.Now()
	item.Status = status
	if tracking.Courier != "" || tracking.TrackingNumber != "" {
		item.TrackingCourier = tracking.Courier
		item.TrackingNumber = tracking.TrackingNumber
		item.TrackingUpdatedAt = &now
	}
	order.DeliveryStatus = DeriveDeliveryStatus(order.Items)

	if err := s.orders.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

func findItem(order *models.Order, itemID string) *models.LineItem {
	for i := range order.Items {
		if order.Items[i].ItemID == itemID || order.Items[i].ID.String() == itemID {
			return &order.Items[i]
		}
	}
	return nil
}
