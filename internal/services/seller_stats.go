package services

import (
	"github.com/google/uuid"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// SellerStats is the dashboard summary for one seller.
type SellerStats struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalOrders    int     `json:"total_orders"`
	TotalProducts  int64   `json:"total_products"`
	TotalCustomers int     `json:"total_customers"`
}

// SellerStatsProvider computes seller-scoped views over the order
// collection. The current implementation is a full scan; keeping it
// behind this interface lets an incrementally maintained summary table
// replace it without touching callers.
type SellerStatsProvider interface {
	ComputeSellerStats(sellerID uuid.UUID) (*SellerStats, error)
	ListSellerOrders(sellerID uuid.UUID) ([]models.Order, error)
}

// ScanSellerStats derives seller stats by scanning every order and
// filtering line items. Acceptable at current scale; known scaling limit.
type ScanSellerStats struct {
	orders   OrderStore
	products ProductStore
}

// NewScanSellerStats constructs ScanSellerStats.
func NewScanSellerStats(orders OrderStore, products ProductStore) *ScanSellerStats {
	return &ScanSellerStats{orders: orders, products: products}
}

// ComputeSellerStats scans all orders once: an order counts once however
// many of its items match, revenue sums only the matching items'
// subtotals, and customers are deduplicated across orders. Product count
// comes from the catalog, not from orders.
func (s *ScanSellerStats) ComputeSellerStats(sellerID uuid.UUID) (*SellerStats, error) {
	orders, err := s.orders.All()
	if err != nil {
		return nil, apperr.Internal("failed to scan orders", err)
	}

	stats := &SellerStats{}
	customers := make(map[uuid.UUID]struct{})
	for _, order := range orders {
		matched := false
		for _, item := range order.Items {
			if item.SellerID != sellerID {
				continue
			}
			matched = true
			stats.TotalRevenue += item.Subtotal()
		}
		if matched {
			stats.TotalOrders++
			customers[order.UserID] = struct{}{}
		}
	}
	stats.TotalCustomers = len(customers)

	productCount, err := s.products.CountBySeller(sellerID)
	if err != nil {
		return nil, apperr.Internal("failed to count products", err)
	}
	stats.TotalProducts = productCount

	return stats, nil
}

// ListSellerOrders returns each order containing the seller's items,
// projected down to that seller's portion.
func (s *ScanSellerStats) ListSellerOrders(sellerID uuid.UUID) ([]models.Order, error) {
	orders, err := s.orders.All()
	if err != nil {
		return nil, apperr.Internal("failed to scan orders", err)
	}

	scoped := make([]models.Order, 0)
	for _, order := range orders {
		if view, ok := ProjectSellerOrder(order, sellerID); ok {
			scoped = append(scoped, view)
		}
	}
	return scoped, nil
}

// ProjectSellerOrder reduces an order to one seller's view: only that
// seller's line items survive and the total is recomputed from them, so
// a seller never sees co-sellers' items or totals on a shared order.
func ProjectSellerOrder(order models.Order, sellerID uuid.UUID) (models.Order, bool) {
	var items []models.LineItem
	var total float64
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			items = append(items, item)
			total += item.Subtotal()
		}
	}
	if len(items) == 0 {
		return models.Order{}, false
	}

	view := order
	view.Items = items
	view.TotalAmount = total
	return view, true
}
