package storage

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// ProductStore persists catalog entries and their reviews.
type ProductStore struct {
	db *gorm.DB
}

// NewProductStore constructs ProductStore.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Create inserts a new product.
func (s *ProductStore) Create(product *models.Product) error {
	return s.db.Create(product).Error
}

// ByID loads one product without its review list.
func (s *ProductStore) ByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("failed to load product", err)
	}
	return &product, nil
}

// Save writes back product fields, including the rating aggregate.
func (s *ProductStore) Save(product *models.Product) error {
	return s.db.Save(product).Error
}

// List returns one page of products plus the total count, optionally
// filtered by seller.
func (s *ProductStore) List(sellerID *uuid.UUID, limit, offset int) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountBySeller counts the seller's catalog entries.
func (s *ProductStore) CountBySeller(sellerID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&count).Error
	return count, err
}

// ReviewsByProduct returns all reviews for a product, newest first.
func (s *ProductStore) ReviewsByProduct(productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.Where("product_id = ?", productID).Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReviewBy loads the single review a user left on a product, if any.
func (s *ProductStore) ReviewBy(productID, userID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "product_id = ? AND user_id = ?", productID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal("failed to load review", err)
	}
	return &review, nil
}

// ReviewByID loads a review by storage key, scoped to its product.
func (s *ProductStore) ReviewByID(productID, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, "id = ? AND product_id = ?", reviewID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("review not found")
		}
		return nil, apperr.Internal("failed to load review", err)
	}
	return &review, nil
}

// AddReview inserts a review. The unique (product, user) index backs the
// one-review-per-user invariant at the storage level too.
func (s *ProductStore) AddReview(review *models.Review) error {
	return s.db.Create(review).Error
}

// SaveReview writes back review fields (helpful count and voter set).
func (s *ProductStore) SaveReview(review *models.Review) error {
	return s.db.Save(review).Error
}
