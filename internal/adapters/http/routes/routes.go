package routes

import (
	"time"

	"gadgethub-api/internal/adapters/events"
	"gadgethub-api/internal/adapters/http/handlers"
	"gadgethub-api/internal/adapters/http/middleware"
	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Deps carries the process-level collaborators built in main
type Deps struct {
	Publisher events.Publisher
	Notifier  *services.NotificationService
	// Storage backs the rate limiters; nil keeps counters in memory
	Storage fiber.Storage
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, deps Deps) {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Notifier == nil {
		deps.Notifier = services.NewNotificationService(nil, cfg.AppURL)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, deps.Notifier, cfg)
	catalogService := services.NewCatalogService(listingRepo, userRepo)
	orderService := services.NewOrderService(orderRepo, listingRepo, userRepo, deps.Publisher, deps.Notifier)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	listingHandler := handlers.NewListingHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reportHandler := handlers.NewReportHandler(orderService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	auth := middleware.AuthMiddleware(cfg)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth, deps.Storage)
	setupListingRoutes(apiV1.Group("/listings"), listingHandler, auth)
	setupOrderRoutes(apiV1.Group("/orders", auth, middleware.NoCacheHeaders()), orderHandler)

	reports := apiV1.Group("/reports", auth, middleware.RootOnly(), middleware.NoCacheHeaders())
	reports.Get("/branch-summary", reportHandler.BranchSummary)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler, storage fiber.Storage) {
	limited := middleware.AuthRateLimiter(storage)

	// Public routes
	router.Post("/register", limited, handler.Register)
	router.Post("/verify", handler.Verify)
	router.Post("/login", limited, handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/logout-all", auth, handler.LogoutAll)
	router.Get("/me", auth, handler.Me)
}

// setupListingRoutes configures catalog routes. Reads are public and cacheable.
func setupListingRoutes(router fiber.Router, handler *handlers.ListingHandler, auth fiber.Handler) {
	router.Get("/", middleware.PublicCache(30*time.Second), handler.List)
	router.Get("/:id", middleware.PublicCache(30*time.Second), handler.Get)

	router.Post("/", auth, handler.Create)
	router.Put("/:id/status", auth, middleware.RootOnly(), handler.SetStatus)
}

// setupOrderRoutes configures order routes; every route requires a session
func setupOrderRoutes(router fiber.Router, handler *handlers.OrderHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/mine", handler.Mine)
	router.Get("/queue", handler.Queue)
	router.Get("/:id", handler.Get)
	router.Get("/:id/history", handler.History)
	router.Put("/:id/status", handler.UpdateStatus)
}
