package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/example/bazaar/internal/apperr"
	"github.com/example/bazaar/internal/models"
)

// ReviewService handles the two review surfaces and keeps them distinct:
// the one-shot order-level rating (requires full delivery) and per-product
// reviews (require purchase, not delivery). It also folds new stars into
// the product's running average.
type ReviewService struct {
	orders   OrderStore
	products ProductStore
}

// NewReviewService constructs ReviewService.
func NewReviewService(orders OrderStore, products ProductStore) *ReviewService {
	return &ReviewService{orders: orders, products: products}
}

// CanRateOrder reports whether the order-level rating may still be
// submitted: every line item Delivered and no rating recorded yet.
func CanRateOrder(order *models.Order) bool {
	if order.Rated() || len(order.Items) == 0 {
		return false
	}
	for _, item := range order.Items {
		if item.Status != models.ItemDelivered {
			return false
		}
	}
	return true
}

// CanReviewProduct reports whether the user may review the product: at
// least one order containing it (delivered or not) and no review by this
// user on it yet.
func (s *ReviewService) CanReviewProduct(userID, productID uuid.UUID) (bool, error) {
	purchased, err := s.orders.HasPurchase(userID, productID)
	if err != nil {
		return false, apperr.Internal("failed to check purchase history", err)
	}
	if !purchased {
		return false, nil
	}

	existing, err := s.products.ReviewBy(productID, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	return existing == nil, nil
}

// SubmitOrderRating records the one-shot order rating and mirrors it as
// a review onto the first line item's product if the user has not
// reviewed that product already.
func (s *ReviewService) SubmitOrderRating(ref string, userID uuid.UUID, userName string, stars int, text string, photos []string) (*models.Order, error) {
	if stars < 1 || stars > 5 {
		return nil, apperr.Validation("stars must be between 1 and 5")
	}

	order, err := s.resolveOrder(ref)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.Forbidden("order belongs to another user")
	}
	if !CanRateOrder(order) {
		if order.Rated() {
			return nil, apperr.InvalidState("order has already been rated")
		}
		return nil, apperr.InvalidState("order can be rated once all items are delivered")
	}

	now := time.Now()
	order.RatingStars = &stars
	order.RatingText = text
	order.RatingPhotos = photos
	order.RatedAt = &now

	if err := s.orders.Save(order); err != nil {
		return nil, err
	}

	// The rating feeds the first line item's product review stream.
	// Orders spanning several products only credit the first; the other
	// products are reviewed through the product endpoint.
	s.mirrorRatingToProduct(order, userID, userName, stars, text, photos)

	return order, nil
}

func (s *ReviewService) resolveOrder(ref string) (*models.Order, error) {
	if IsOrderID(ref) {
		return s.orders.ByOrderID(ref)
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, apperr.Validation("invalid order reference")
	}
	return s.orders.ByKey(id)
}

func (s *ReviewService) mirrorRatingToProduct(order *models.Order, userID uuid.UUID, userName string, stars int, text string, photos []string) {
	if len(order.Items) == 0 {
		return
	}
	productID := order.Items[0].ProductID

	existing, err := s.products.ReviewBy(productID, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return
	}
	if existing != nil {
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Stars:     stars,
		Text:      text,
		Photos:    photos,
	}
	if _, err := s.appendReview(review); err != nil {
		// The order rating is already durable; a failed mirror only
		// costs the product a data point.
		return
	}
}

// SubmitProductReview adds a standalone product review after checking
// eligibility, then recomputes the product's rating aggregate.
func (s *ReviewService) SubmitProductReview(userID uuid.UUID, userName string, productID uuid.UUID, stars int, text string, photos []string) (*models.Review, error) {
	if stars < 1 || stars > 5 {
		return nil, apperr.Validation("stars must be between 1 and 5")
	}

	purchased, err := s.orders.HasPurchase(userID, productID)
	if err != nil {
		return nil, apperr.Internal("failed to check purchase history", err)
	}
	if !purchased {
		return nil, apperr.InvalidState("only buyers of this product can review it")
	}

	existing, err := s.products.ReviewBy(productID, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.InvalidState("product already reviewed by this user")
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Stars:     stars,
		Text:      text,
		Photos:    photos,
	}
	return s.appendReview(review)
}

func (s *ReviewService) appendReview(review *models.Review) (*models.Review, error) {
	product, err := s.products.ByID(review.ProductID)
	if err != nil {
		return nil, err
	}

	if err := s.products.AddReview(review); err != nil {
		return nil, apperr.Internal("failed to store review", err)
	}

	reviews, err := s.products.ReviewsByProduct(product.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load reviews", err)
	}
	product.RatingAverage = MeanStars(reviews)
	product.RatingCount = len(reviews)
	if err := s.products.Save(product); err != nil {
		return nil, apperr.Internal("failed to update product rating", err)
	}

	return review, nil
}

// MeanStars is the arithmetic mean of all review stars, rounded to one
// decimal place.
func MeanStars(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Stars
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// ListProductReviews returns all reviews for a product, newest first.
func (s *ReviewService) ListProductReviews(productID uuid.UUID) ([]models.Review, error) {
	if _, err := s.products.ByID(productID); err != nil {
		return nil, err
	}
	return s.products.ReviewsByProduct(productID)
}

// MarkReviewHelpful records a helpful vote, idempotently per user: the
// first vote from a user increments the count by one, repeats are no-ops
// returning the unchanged count.
func (s *ReviewService) MarkReviewHelpful(productID, reviewID, userID uuid.UUID) (int, error) {
	review, err := s.products.ReviewByID(productID, reviewID)
	if err != nil {
		return 0, err
	}

	voter := userID.String()
	for _, v := range review.HelpfulVoters {
		if v == voter {
			return review.HelpfulCount, nil
		}
	}

	review.HelpfulVoters = append(review.HelpfulVoters, voter)
	review.HelpfulCount++
	if err := s.products.SaveReview(review); err != nil {
		return 0, apperr.Internal("failed to record helpful vote", err)
	}
	return review.HelpfulCount, nil
}
