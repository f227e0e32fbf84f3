package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/retailnet/retail_api/internal/cache"
	"github.com/retailnet/retail_api/internal/config"
	"github.com/retailnet/retail_api/internal/database"
	"github.com/retailnet/retail_api/internal/handler"
	"github.com/retailnet/retail_api/internal/middleware"
	"github.com/retailnet/retail_api/internal/repository"
	"github.com/retailnet/retail_api/internal/service"
	"github.com/retailnet/retail_api/internal/utils"
	"github.com/retailnet/retail_api/pkg/feed"
)

// main is the application entrypoint for the retail ordering API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting retail api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	shopRepo := repository.NewShopRepository(db)
	contactRepo := repository.NewContactRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// 5. Initialize collaborators
	confirmationCache := cache.NewConfirmationCache(redisClient, cfg.Confirmation.TTL)
	notifier := service.NewMailNotifier(&cfg.SMTP)
	feedClient := feed.NewClient()

	// 6. Initialize services
	authSvc := service.NewAuthService(accountRepo, shopRepo, confirmationCache, notifier)
	contactSvc := service.NewContactService(contactRepo)
	catalogSvc := service.NewCatalogService(catalogRepo, shopRepo, feedClient)
	cartSvc := service.NewCartService(orderRepo, catalogRepo, contactRepo, accountRepo, confirmationCache, notifier)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db),
		Auth:    handler.NewAuthHandler(authSvc),
		Contact: handler.NewContactHandler(contactSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Cart:    handler.NewCartHandler(cartSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(accountRepo)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Contact *handler.ContactHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public account routes
	user := router.Group("/v1/user")
	{
		user.POST("/register", handlers.Auth.Register)
		user.POST("/register/resend-activation", handlers.Auth.ResendActivation)
		user.POST("/register/activate", handlers.Auth.Activate)
		user.POST("/login", handlers.Auth.Login)
		user.POST("/password-reset", handlers.Auth.PasswordReset)
		user.POST("/password-reset/confirm", handlers.Auth.PasswordResetConfirm)
	}

	// Public catalog routes
	router.GET("/v1/shops", handlers.Catalog.ListShops)
	router.GET("/v1/categories", handlers.Catalog.ListCategories)
	router.GET("/v1/products", handlers.Catalog.ListProducts)
	router.GET("/v1/products/:id", handlers.Catalog.GetProduct)

	// Authenticated profile and contacts
	profile := router.Group("/v1/user")
	profile.Use(jwtMiddleware.Handle())
	{
		profile.GET("/profile", handlers.Auth.GetProfile)
		profile.PATCH("/profile", handlers.Auth.UpdateProfile)
		profile.DELETE("/profile", handlers.Auth.DeleteProfile)

		profile.GET("/contacts", handlers.Contact.ListContacts)
		profile.POST("/contacts", handlers.Contact.CreateContact)
		profile.PATCH("/contacts/:id", handlers.Contact.UpdateContact)
		profile.DELETE("/contacts/:id", handlers.Contact.DeleteContact)
	}

	// Basket and orders (buyers)
	authed := router.Group("/v1")
	authed.Use(jwtMiddleware.Handle())
	{
		authed.GET("/basket", handlers.Cart.GetBasket)
		authed.POST("/basket/items", handlers.Cart.AddItem)
		authed.DELETE("/basket/items/:productInfoId", handlers.Cart.RemoveItem)

		authed.POST("/orders", handlers.Cart.PlaceOrder)
		authed.POST("/orders/confirm", handlers.Cart.ConfirmOrder)
		authed.GET("/orders", handlers.Cart.ListOrders)
	}

	// Supplier routes
	shop := router.Group("/v1/shop")
	shop.Use(jwtMiddleware.Handle(), middleware.RequireSupplier())
	{
		shop.POST("/feed", handlers.Catalog.LoadFeed)
		shop.PATCH("/status", handlers.Catalog.SetShopStatus)
		shop.GET("/orders", handlers.Cart.ListSupplierOrders)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
