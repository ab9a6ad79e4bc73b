package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/services"
)

// SellerHandler serves the seller dashboard: scoped order views, stats
// and fulfilment updates.
type SellerHandler struct {
	orders *services.OrderService
	stats  services.SellerStatsProvider
}

// NewSellerHandler constructs SellerHandler.
func NewSellerHandler(orders *services.OrderService, stats services.SellerStatsProvider) *SellerHandler {
	return &SellerHandler{orders: orders, stats: stats}
}

// currentSeller resolves the :sellerId param and checks it is the caller
// (admins may look at any seller).
func currentSeller(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	sellerID, err := uuid.Parse(c.Params("sellerId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid seller id")
	}

	if sellerID != userID && middleware.GetCurrentRole(c) != models.RoleAdmin {
		return uuid.Nil, fiber.NewError(fiber.StatusForbidden, "cannot access another seller's data")
	}
	return sellerID, nil
}

// ListOrders returns the seller's orders, each reduced to that seller's
// line items and subtotal.
func (h *SellerHandler) ListOrders(c *fiber.Ctx) error {
	sellerID, err := currentSeller(c)
	if err != nil {
		return err
	}

	orders, err := h.stats.ListSellerOrders(sellerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

// GetStats returns the seller's revenue/order/customer/product counts.
func (h *SellerHandler) GetStats(c *fiber.Ctx) error {
	sellerID, err := currentSeller(c)
	if err != nil {
		return err
	}

	stats, err := h.stats.ComputeSellerStats(sellerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

type itemStatusRequest struct {
	Status         string `json:"status"`
	Courier        string `json:"courier"`
	TrackingNumber string `json:"tracking_number"`
}

// UpdateItemStatus applies a fulfilment transition to one of the
// seller's line items.
func (h *SellerHandler) UpdateItemStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req itemStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.UpdateItemStatus(
		c.Params("orderId"),
		c.Params("itemId"),
		userID,
		models.ItemStatus(req.Status),
		services.TrackingUpdate{Courier: req.Courier, TrackingNumber: req.TrackingNumber},
	)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
