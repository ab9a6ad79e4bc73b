package services

import (
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/example/bazaar/internal/models"
)

// OrderStore is the persistence surface the order services depend on.
// Save performs an optimistic-concurrency write: the order row is only
// updated if its version column still matches the loaded value, and a
// stale write surfaces as apperr.ErrConflict for the caller to retry.
type OrderStore interface {
	Create(order *models.Order) error
	Save(order *models.Order) error
	OrderIDTaken(orderID string) (bool, error)
	ByKey(id uuid.UUID) (*models.Order, error)
	ByOrderID(orderID string) (*models.Order, error)
	ByUser(userID uuid.UUID, limit, offset int) ([]models.Order, int64, error)
	All() ([]models.Order, error)
	HasPurchase(userID, productID uuid.UUID) (bool, error)
}

// ProductStore resolves catalog entries and owns review persistence.
type ProductStore interface {
	ByID(id uuid.UUID) (*models.Product, error)
	Save(product *models.Product) error
	CountBySeller(sellerID uuid.UUID) (int64, error)
	ReviewsByProduct(productID uuid.UUID) ([]models.Review, error)
	ReviewBy(productID, userID uuid.UUID) (*models.Review, error)
	AddReview(review *models.Review) error
	SaveReview(review *models.Review) error
	ReviewByID(productID, reviewID uuid.UUID) (*models.Review, error)
}

// CartStore supplies the user's pending cart at checkout and clears it
// once the order is durably created.
type CartStore interface {
	ItemsByUser(userID uuid.UUID) ([]models.CartItem, error)
	Clear(userID uuid.UUID) error
}

// FileStore saves an uploaded file and returns a publicly servable URL.
type FileStore interface {
	SaveFile(file *multipart.FileHeader, folder string) (string, error)
}
