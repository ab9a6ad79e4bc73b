package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url"`
	SellerID      uuid.UUID `gorm:"type:uuid;index" json:"seller_id"`
	SellerName    string    `json:"seller_name"`
	StoreName     string    `json:"store_name"`
	RatingAverage float64   `json:"rating_average"`
	RatingCount   int       `json:"rating_count"`
	Reviews       []Review  `json:"reviews,omitempty"`
}

// Review is one user's verdict on a product. A user reviews a product at
// most once; HelpfulVoters keeps the helpful toggle idempotent per user.
type Review struct {
	BaseModel
	ProductID     uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	UserName      string         `json:"user_name"`
	Stars         int            `json:"stars"`
	Text          string         `json:"text"`
	Photos        pq.StringArray `gorm:"type:text[]" json:"photos"`
	HelpfulCount  int            `json:"helpful_count"`
	HelpfulVoters pq.StringArray `gorm:"type:text[]" json:"-"`
}
