package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/services"
	"github.com/example/bazaar/internal/utils"
)

// OrderHandler manages the buyer-facing order endpoints.
type OrderHandler struct {
	db      *gorm.DB
	orders  *services.OrderService
	reviews *services.ReviewService
	files   services.FileStore
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService, reviews *services.ReviewService, files services.FileStore) *OrderHandler {
	return &OrderHandler{db: db, orders: orders, reviews: reviews, files: files}
}

type orderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type shippingAddressRequest struct {
	Line      string `json:"line"`
	Apartment string `json:"apartment"`
	City      string `json:"city"`
	District  string `json:"district"`
	Phone     string `json:"phone"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items"`
	PaymentStatus   string                 `json:"payment_status"`
	ShippingAddress shippingAddressRequest `json:"shipping_address"`
}

// CreateOrder places an order from explicit items, or from the user's
// cart when the item list is empty.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	items := make([]services.LineItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		id, err := uuid.Parse(it.ProductID)
		if err != nil {
			continue
		}
		items = append(items, services.LineItemRequest{ProductID: id, Quantity: it.Quantity})
	}
	if len(req.Items) > 0 && len(items) == 0 {
		// All explicit items were malformed; don't fall through to the
		// cart path.
		return fiber.NewError(fiber.StatusBadRequest, "order has no resolvable items")
	}

	order, err := h.orders.Checkout(userID, items, models.PaymentStatus(req.PaymentStatus), services.ShippingAddress{
		Line:      req.ShippingAddress.Line,
		Apartment: req.ShippingAddress.Apartment,
		City:      req.ShippingAddress.City,
		District:  req.ShippingAddress.District,
		Phone:     req.ShippingAddress.Phone,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListMine(userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder resolves an order by human-readable identifier or storage key.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	order, err := h.orders.Get(c.Params("id"), userID, middleware.GetCurrentRole(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// CancelOrder cancels the whole order while it is still cancellable.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	order, err := h.orders.Cancel(c.Params("id"), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// SubmitRating records the one-shot order rating. Multipart body: stars,
// text and any number of photo files.
func (h *OrderHandler) SubmitRating(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	stars, err := strconv.Atoi(c.FormValue("stars"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "stars must be a number")
	}
	text := c.FormValue("text")

	photos, err := h.savePhotos(c, "ratings")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store photos")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	order, err := h.reviews.SubmitOrderRating(c.Params("id"), userID, user.Name, stars, text, photos)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

func (h *OrderHandler) savePhotos(c *fiber.Ctx, folder string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Bodies without files are fine; photos are optional.
		return nil, nil
	}

	var urls []string
	for _, file := range form.File["photos"] {
		url, err := h.files.SaveFile(file, folder)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// ReviewEligibility reports whether the user may review a product.
func (h *OrderHandler) ReviewEligibility(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	eligible, err := h.reviews.CanReviewProduct(userID, productID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "eligible": eligible})
}
