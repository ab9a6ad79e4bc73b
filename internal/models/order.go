package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ItemStatus is the fulfilment state of a single line item.
type ItemStatus string

const (
	ItemProcessing     ItemStatus = "Processing"
	ItemShipped        ItemStatus = "Shipped"
	ItemOutForDelivery ItemStatus = "OutForDelivery"
	ItemDelivered      ItemStatus = "Delivered"
	ItemCancelled      ItemStatus = "Cancelled"
)

// DeliveryStatus is the order-level state derived from all line items.
// It is recomputed on every mutation, never set directly.
type DeliveryStatus string

const (
	DeliveryProcessing       DeliveryStatus = "Processing"
	DeliveryPartiallyShipped DeliveryStatus = "PartiallyShipped"
	DeliveryShipped          DeliveryStatus = "Shipped"
	DeliveryDelivered        DeliveryStatus = "Delivered"
	DeliveryCancelled        DeliveryStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Order is one checkout transaction. Line items are embedded and loaded
// with the aggregate; the shipping address and all prices are snapshots
// taken at order time. Version backs the optimistic write guard.
type Order struct {
	BaseModel
	OrderID        string         `gorm:"uniqueIndex" json:"order_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User           *User          `json:"user,omitempty"`
	Items          []LineItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	TotalAmount    float64        `json:"total_amount"`
	PaymentStatus  PaymentStatus  `json:"payment_status"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`

	ShippingLine      string `json:"shipping_line"`
	ShippingApartment string `json:"shipping_apartment"`
	ShippingCity      string `json:"shipping_city"`
	ShippingDistrict  string `json:"shipping_district"`
	ShippingPhone     string `json:"shipping_phone"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	RatingStars  *int           `json:"rating_stars,omitempty"`
	RatingText   string         `json:"rating_text,omitempty"`
	RatingPhotos pq.StringArray `gorm:"type:text[]" json:"rating_photos,omitempty"`
	RatedAt      *time.Time     `json:"rated_at,omitempty"`

	Version int `json:"-"`
}

// Rated reports whether the order-level rating has been submitted.
func (o *Order) Rated() bool {
	return o.RatingStars != nil
}

// LineItem is one product/quantity/price entry within an order. Position
// is the zero-based slot the item identifier is derived from; seller
// identity and unit price are snapshotted at order time.
type LineItem struct {
	BaseModel
	OrderID    uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	Position   int        `json:"position"`
	ItemID     string     `gorm:"index" json:"item_id"`
	ProductID  uuid.UUID  `gorm:"type:uuid;index" json:"product_id"`
	SellerID   uuid.UUID  `gorm:"type:uuid;index" json:"seller_id"`
	SellerName string     `json:"seller_name"`
	StoreName  string     `json:"store_name"`
	Quantity   int        `json:"quantity"`
	Price      float64    `json:"price"`
	Status     ItemStatus `json:"status"`

	TrackingCourier   string     `json:"tracking_courier,omitempty"`
	TrackingNumber    string     `json:"tracking_number,omitempty"`
	TrackingUpdatedAt *time.Time `json:"tracking_updated_at,omitempty"`
}

// Subtotal is the snapshotted line total.
func (li *LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}
