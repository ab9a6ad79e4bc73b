package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/models"
	"github.com/example/bazaar/internal/services"
)

// ReviewHandler manages product reviews and helpful votes.
type ReviewHandler struct {
	db      *gorm.DB
	reviews *services.ReviewService
	files   services.FileStore
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB, reviews *services.ReviewService, files services.FileStore) *ReviewHandler {
	return &ReviewHandler{db: db, reviews: reviews, files: files}
}

// SubmitReview adds the authenticated user's review of a product.
// Multipart body: stars, text and optional photo files.
func (h *ReviewHandler) SubmitReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	stars, err := strconv.Atoi(c.FormValue("stars"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "stars must be a number")
	}
	text := c.FormValue("text")

	var photos []string
	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["photos"] {
			url, err := h.files.SaveFile(file, "reviews")
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to store photos")
			}
			photos = append(photos, url)
		}
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	review, err := h.reviews.SubmitProductReview(userID, user.Name, productID, stars, text, photos)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

// ListReviews returns all reviews of a product, newest first.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	reviews, err := h.reviews.ListProductReviews(productID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": reviews})
}

// MarkHelpful records a helpful vote on a review, once per user.
func (h *ReviewHandler) MarkHelpful(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	reviewID, err := uuid.Parse(c.Params("reviewId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid review id")
	}

	count, err := h.reviews.MarkReviewHelpful(productID, reviewID, userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "helpful_count": count})
}
