package storage

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// CartStore persists pending cart items.
type CartStore struct {
	db *gorm.DB
}

// NewCartStore constructs CartStore.
func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// ItemsByUser returns the user's cart, oldest first.
func (s *CartStore) ItemsByUser(userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts a cart entry, or bumps the quantity when the product is
// already in the cart (keeping the original price snapshot).
func (s *CartStore) Add(userID, productID uuid.UUID, quantity int, price float64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.First(&item, "user_id = ? AND product_id = ?", userID, productID).Error
	switch {
	case err == nil:
		item.Quantity += quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity, Price: price}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	default:
		return nil, err
	}
}

// Remove deletes one cart entry belonging to the user.
func (s *CartStore) Remove(userID, itemID uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("cart item not found")
	}
	return nil
}

// Clear drops every cart entry for the user. Called only after the
// order derived from the cart is durably created.
func (s *CartStore) Clear(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
