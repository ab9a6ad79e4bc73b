package models

import "github.com/google/uuid"

// CartItem is one pending purchase in a user's cart. Price is snapshotted
// when the item is added; checkout converts it verbatim into a line item.
type CartItem struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}
