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

	"github.com/isoko-app/isoko-api/internal/cache"
	"github.com/isoko-app/isoko-api/internal/config"
	"github.com/isoko-app/isoko-api/internal/database"
	"github.com/isoko-app/isoko-api/internal/handler"
	"github.com/isoko-app/isoko-api/internal/middleware"
	"github.com/isoko-app/isoko-api/internal/repository"
	"github.com/isoko-app/isoko-api/internal/service"
	"github.com/isoko-app/isoko-api/internal/utils"
)

// main is the application entrypoint for the Isoko discovery API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting isoko api")

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

	// 3b. Connect to Redis. The product-count cache is an optimization;
	// discovery keeps working without it.
	var countCache service.CountCache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis connection failed - product count caching disabled")
	} else {
		defer redisClient.Close()
		countCache = cache.NewProductCountCache(redisClient, cfg.Discovery.ProductCountTTL)
		log.Info().Msg("redis connected successfully")
	}

	// 4. Initialize repositories
	businessRepo := repository.NewBusinessRepository(db)
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)

	// 5. Initialize services
	authSvc := service.NewAuthService(clientRepo)
	businessDiscovery := service.NewBusinessDiscoveryService(businessRepo, productRepo, countCache, cfg.Discovery)
	productDiscovery := service.NewProductDiscoveryService(businessRepo, productRepo, cfg.Discovery)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db),
		Business: handler.NewBusinessHandler(businessDiscovery, cfg.Discovery),
		Product:  handler.NewProductHandler(productDiscovery, cfg.Discovery),
	}

	// 7. Initialize middleware
	authMw := middleware.NewAuthMiddleware(authSvc)
	jwtMw := middleware.NewJWTMiddleware()

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, jwtMw)

	// 9. Start HTTP server
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

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Business *handler.BusinessHandler
	Product  *handler.ProductHandler
}

// setupRoutes registers all routes. Discovery endpoints are mounted twice:
// under /v1/discovery for API-key clients (server-to-server) and under
// /v1/app for end users carrying a session JWT. The /v1/public group needs
// no credentials and no requester coordinates.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public, unauthenticated lookups
	public := router.Group("/v1/public")
	{
		public.GET("/businesses/:id", handlers.Business.GetPublicDetails)
		public.GET("/businesses/:id/products", handlers.Product.ListForBusiness)
	}

	// API-key protected discovery (partner integrations)
	discovery := router.Group("/v1/discovery")
	discovery.Use(authMiddleware.Handle())
	registerDiscoveryRoutes(discovery, handlers)

	// Session-JWT protected discovery (mobile/web app users)
	app := router.Group("/v1/app")
	app.Use(jwtMiddleware.Handle())
	registerDiscoveryRoutes(app, handlers)
}

func registerDiscoveryRoutes(g *gin.RouterGroup, handlers *Handlers) {
	g.GET("/businesses/nearest", handlers.Business.GetNearest)
	g.GET("/businesses/within-radius", handlers.Business.GetWithinRadius)
	g.GET("/businesses/by-region", handlers.Business.GetByRegion)
	g.GET("/businesses/search", handlers.Business.Search)
	g.GET("/businesses/search-by-name", handlers.Business.SearchByName)
	g.GET("/businesses/search-by-product", handlers.Business.SearchByProductName)
	g.GET("/businesses/:id", handlers.Business.GetPublicDetails)
	g.GET("/businesses/:id/products", handlers.Product.ListForBusiness)
	g.GET("/businesses/:id/products/with-distance", handlers.Product.ListWithDistance)
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

	// Run migrations
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
