package routes

import (
	"time"

	"digital-library/internal/adapters/http/handlers"
	"digital-library/internal/adapters/http/middleware"
	"digital-library/internal/adapters/openlibrary"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/config"
	"digital-library/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application.
// events may be nil, in which case lending events are discarded.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, events services.LendingEventPublisher) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	store := repositories.NewStore(db)

	// External catalog
	openLibrary := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.Timeout)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	catalogService := services.NewCatalogService(store.Books(), openLibrary, cfg.ListPerPage)
	lendingService := services.NewLendingService(store, services.WithEventPublisher(events))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService, lendingService)
	bookHandler := handlers.NewBookHandler(catalogService, lendingService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	setupUserRoutes(app.Group("/users"), authHandler, userHandler, cfg)
	setupBookRoutes(app.Group("/books"), bookHandler, cfg)
}

func setupUserRoutes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	cfg *config.Config,
) {
	router.Use(middleware.NoCacheHeaders())

	// Public
	router.Post("/register", middleware.AuthRateLimiter(), middleware.OptionalAuth(cfg), authHandler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	router.Post("/refresh", authHandler.RefreshToken)
	router.Post("/logout", authHandler.Logout)

	// Authenticated
	auth := middleware.AuthMiddleware(cfg)
	router.Post("/logout-all", auth, authHandler.LogoutAll)
	router.Get("/me", auth, userHandler.GetProfile)
	router.Put("/me/password", auth, userHandler.ChangePassword)
	router.Get("/me/borrowed-books", auth, userHandler.BorrowedBooks)
}

func setupBookRoutes(router fiber.Router, bookHandler *handlers.BookHandler, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg)

	// Public catalog (search is registered before :id)
	router.Get("/", middleware.CatalogCache(), bookHandler.ListBooks)
	router.Get("/search", middleware.CacheControl(time.Minute), bookHandler.SearchExternal)
	router.Get("/:id", middleware.CatalogCache(), bookHandler.GetBook)

	// Admin
	router.Post("/", auth, middleware.AdminOnly(), bookHandler.CreateBook)
	router.Get("/:id/borrow-history", auth, middleware.AdminOnly(), middleware.NoCacheHeaders(), bookHandler.BorrowHistory)

	// Lending
	router.Post("/:id/borrow", auth, bookHandler.Borrow)
	router.Post("/:id/return", auth, bookHandler.Return)
}
