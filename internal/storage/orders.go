package storage

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// OrderStore persists orders with their embedded line items.
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore constructs OrderStore.
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	})
}

// Create inserts the order and its line items in one transaction.
func (s *OrderStore) Create(order *models.Order) error {
	return s.db.Create(order).Error
}

// Save writes the order header and items back under an optimistic
// version guard: the header update only applies while the version column
// still matches the value the order was loaded with. A stale write
// surfaces as apperr.ErrConflict and leaves the record untouched.
func (s *OrderStore) Save(order *models.Order) error {
	prev := order.Version

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, prev).
			Updates(map[string]interface{}{
				"order_id":        order.OrderID,
				"total_amount":    order.TotalAmount,
				"payment_status":  order.PaymentStatus,
				"delivery_status": order.DeliveryStatus,
				"cancelled_at":    order.CancelledAt,
				"rating_stars":    order.RatingStars,
				"rating_text":     order.RatingText,
				"rating_photos":   order.RatingPhotos,
				"rated_at":        order.RatedAt,
				"version":         prev + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("order was modified concurrently, reload and retry")
		}

		for i := range order.Items {
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperr.Internal("failed to save order", err)
	}

	order.Version = prev + 1
	return nil
}

// OrderIDTaken reports whether a human-readable order identifier is
// already in use.
func (s *OrderStore) OrderIDTaken(orderID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Order{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByKey loads an order by storage key.
func (s *OrderStore) ByKey(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withItems(s.db).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to load order", err)
	}
	return &order, nil
}

// ByOrderID loads an order by its human-readable identifier.
func (s *OrderStore) ByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	if err := withItems(s.db).First(&order, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to load order", err)
	}
	return &order, nil
}

// ByUser returns one page of the user's orders, newest first, plus the
// total count.
func (s *OrderStore) ByUser(userID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := withItems(query).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// All returns every order with items, for the seller aggregation scan.
func (s *OrderStore) All() ([]models.Order, error) {
	var orders []models.Order
	if err := withItems(s.db).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// HasPurchase reports whether any of the user's orders contains the
// product.
func (s *OrderStore) HasPurchase(userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.LineItem{}).
		Joins("JOIN orders ON orders.id = line_items.order_id").
		Where("orders.user_id = ? AND line_items.product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
