package routes

import (
	"pharmalink-api/internal/adapters/http/handlers"
	"pharmalink-api/internal/adapters/http/middleware"
	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/config"
	"pharmalink-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, store *repositories.Store, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(store, cfg)
	subscriptionService := services.NewSubscriptionService(store)
	paymentAdminService := services.NewPaymentAdminService(store, cfg)
	walletService := services.NewWalletService(store)
	pricingService := services.NewPricingService(store)
	locationService := services.NewLocationService(store)
	dashboardService := services.NewDashboardService(store)
	userService := services.NewUserService(store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, store.DB())
	authHandler := handlers.NewAuthHandler(authService, cfg)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	pricingHandler := handlers.NewPricingHandler(pricingService)
	paymentAdminHandler := handlers.NewPaymentAdminHandler(paymentAdminService)
	walletHandler := handlers.NewWalletHandler(walletService)
	locationHandler := handlers.NewLocationHandler(locationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(authService)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, auth)
	setupSubscriptionRoutes(apiV1.Group("/subscriptions"), subscriptionHandler, pricingHandler, subscriptionService, auth)
	setupLocationRoutes(apiV1.Group("/locations"), locationHandler)

	// Admin routes
	adminRoutes := apiV1.Group("/admin", auth, middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, paymentAdminHandler, walletHandler, dashboardHandler, userHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register/pharmacists", middleware.AuthRateLimiter(), handler.RegisterPharmacist)
	router.Post("/register/pharmacy-owners", middleware.AuthRateLimiter(), handler.RegisterPharmacyOwner)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, middleware.NoStore(), handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupSubscriptionRoutes configures plan, payment and pricing routes
func setupSubscriptionRoutes(
	router fiber.Router,
	handler *handlers.SubscriptionHandler,
	pricingHandler *handlers.PricingHandler,
	features services.FeatureChecker,
	auth fiber.Handler,
) {
	// Public price list
	router.Get("/pricing", middleware.PricingCache(), pricingHandler.List)

	// Admin price changes
	router.Put("/pricing", auth, middleware.AdminOnly(), pricingHandler.Update)

	// Any authenticated user
	router.Get("/wallet", auth, handler.GetWallet)
	router.Get("/limits", auth, middleware.NoStore(), handler.GetLimits)

	// Subscribers (pharmacists and pharmacy owners)
	subscriber := router.Group("", auth, middleware.SubscriberOnly(), middleware.NoStore())
	subscriber.Get("/me", handler.GetMySubscription)
	subscriber.Post("/upgrade", handler.Upgrade)
	subscriber.Post("/request-change", handler.RequestChange)
	subscriber.Get("/payments", handler.ListMyPayments)
	subscriber.Put("/payments", handler.SubmitPayment)
	subscriber.Patch("/payments/:id/submit", handler.SubmitPaymentByID)
	subscriber.Get("/features/:feature", middleware.RequireFeature(features, "", "feature"), handler.CheckFeature)
}

// setupLocationRoutes configures the public lookup routes
func setupLocationRoutes(router fiber.Router, handler *handlers.LocationHandler) {
	router.Use(middleware.LookupCache())
	router.Get("/cities", handler.ListCities)
	router.Get("/cities/:cityId/areas", handler.ListAreas)
}

// setupAdminRoutes configures admin routes (Admin only)
func setupAdminRoutes(
	router fiber.Router,
	paymentHandler *handlers.PaymentAdminHandler,
	walletHandler *handlers.WalletHandler,
	dashboardHandler *handlers.DashboardHandler,
	userHandler *handlers.UserHandler,
) {
	router.Use(middleware.NoStore())

	// Payment requests
	router.Get("/payments", paymentHandler.List)
	router.Put("/payments", paymentHandler.ManageLegacy)
	router.Patch("/payments/:id/manage", paymentHandler.Manage)

	// Platform wallets
	router.Get("/wallet", walletHandler.List)
	router.Post("/wallet", walletHandler.Create)
	router.Put("/wallet", walletHandler.Update)
	router.Put("/wallet/:id", walletHandler.UpdateByID)

	// Dashboard
	router.Get("/dashboard", dashboardHandler.GetAdminDashboard)

	// Users
	router.Get("/users", userHandler.ListUsers)
	router.Patch("/users/:id/status", userHandler.SetStatus)
}
