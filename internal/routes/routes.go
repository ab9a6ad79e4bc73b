package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bazaar/internal/config"
	"github.com/example/bazaar/internal/handlers"
	"github.com/example/bazaar/internal/middleware"
	"github.com/example/bazaar/internal/services"
	"github.com/example/bazaar/internal/storage"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	orderStore := storage.NewOrderStore(db)
	productStore := storage.NewProductStore(db)
	cartStore := storage.NewCartStore(db)
	fileStore := storage.NewLocalFileStore(cfg.UploadDir, cfg.UploadBaseURL)

	orderService := services.NewOrderService(orderStore, productStore, cartStore)
	reviewService := services.NewReviewService(orderStore, productStore)
	sellerStats := services.NewScanSellerStats(orderStore, productStore)

	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, productStore)
	reviewHandler := handlers.NewReviewHandler(db, reviewService, fileStore)
	cartHandler := handlers.NewCartHandler(cartStore, productStore)
	orderHandler := handlers.NewOrderHandler(db, orderService, reviewService, fileStore)
	sellerHandler := handlers.NewSellerHandler(orderService, sellerStats)

	app.Static(cfg.UploadBaseURL, cfg.UploadDir)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public catalog
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Get("/:id/reviews", reviewHandler.ListReviews)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/products", middleware.RequireSeller(), productHandler.CreateProduct)
	protected.Post("/products/:id/reviews", reviewHandler.SubmitReview)
	protected.Post("/products/:id/reviews/:reviewId/helpful", reviewHandler.MarkHelpful)

	protected.Post("/cart", cartHandler.AddItem)
	protected.Get("/cart", cartHandler.ListItems)
	protected.Delete("/cart/:id", cartHandler.RemoveItem)

	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders/mine", orderHandler.ListMyOrders)
	protected.Get("/orders/eligibility/review/:productId", orderHandler.ReviewEligibility)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id/cancel", orderHandler.CancelOrder)
	protected.Post("/orders/:id/rating", orderHandler.SubmitRating)

	sellers := protected.Group("/sellers", middleware.RequireSeller())
	sellers.Get("/:sellerId/orders", sellerHandler.ListOrders)
	sellers.Get("/:sellerId/stats", sellerHandler.GetStats)
	sellers.Patch("/orders/:orderId/items/:itemId/status", sellerHandler.UpdateItemStatus)
}
