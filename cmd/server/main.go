package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luxedrive/internal/config"
	"luxedrive/internal/handlers"
	"luxedrive/internal/middleware"
	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"
	"luxedrive/internal/repositories/kv"
	"luxedrive/internal/repositories/mongodb"
	"luxedrive/internal/services"
	"luxedrive/internal/storage"
	"luxedrive/pkg/cache"
	"luxedrive/pkg/database"
	"luxedrive/pkg/logger"
	"luxedrive/pkg/payment"
	"luxedrive/pkg/websocket"
	"luxedrive/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  cfg.App.LogFormat,
		Output:  "stdout",
		Caller:  cfg.App.Debug,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialise application")
	}
	defer app.close()

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{
			"address": server.Addr,
			"storage": cfg.Storage.Driver,
			"catalog": cfg.Catalog.Driver,
			"payment": cfg.Payment.Provider,
			"auth":    cfg.Security.AuthMode,
			"env":     cfg.App.Environment,
		}).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Error("Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Graceful shutdown failed")
		os.Exit(1)
	}
	appLogger.Info("Server stopped")
}

type application struct {
	router  *gin.Engine
	closers []func() error
	logger  *logger.Logger
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.WithError(err).Warn("Failed to close resource")
		}
	}
}

func newApplication(ctx context.Context, cfg *config.Config, log *logger.Logger) (*application, error) {
	app := &application{logger: log}
	checks := map[string]handlers.Pinger{}

	store, redisCache, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	if redisCache != nil {
		app.closers = append(app.closers, redisCache.Close)
		checks["redis"] = redisCache
	}

	vehicles, mongo, err := newVehicleRepository(ctx, cfg, store, log)
	if err != nil {
		app.close()
		return nil, err
	}
	if mongo != nil {
		app.closers = append(app.closers, mongo.Close)
		checks["mongodb"] = mongo
	}

	processor, err := newPaymentProcessor(cfg)
	if err != nil {
		app.close()
		return nil, err
	}

	var authenticator services.Authenticator = services.SimulatedAuthenticator{}
	if cfg.Security.AuthMode == config.AuthCredential {
		authenticator = services.NewCredentialAuthenticator(kv.NewAccountRepository(store), cfg.Security.PasswordMinLength, cfg.Security.AdminEmails)
	}

	hub := websocket.NewHub(log)
	go hub.Run(ctx)
	stream := handlers.NewBookingStream(hub, websocket.NewHandler(hub, cfg.Security.CORSAllowedOrigins, log))

	policy := services.NewPolicy()
	carts := kv.NewCartRepository(store)
	bookings := kv.NewBookingRepository(store)

	authService := services.NewAuthService(authenticator, kv.NewSessionRepository(store), cfg.Security.JWTSecret, cfg.Security.JWTAccessTokenTTL, log)
	catalogService := services.NewCatalogService(vehicles, policy, log)
	cartService := services.NewCartService(carts, vehicles, policy, log)
	bookingService := services.NewBookingService(bookings, carts, processor, policy, services.CheckoutOptions{
		Currency:       cfg.Payment.Currency,
		AttemptTimeout: cfg.Payment.AttemptTimeout,
		MaxAttempts:    cfg.Payment.MaxAttempts,
		InitialBackoff: cfg.Payment.InitialBackoff,
		MaxBackoff:     cfg.Payment.MaxBackoff,
	}, log, services.WithNotifier(stream))

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		app.close()
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerMinute, cfg.Security.RateLimitBurst)
	go limiter.Run(ctx)

	// Global middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RateLimitMiddleware(limiter))

	routes.SetupRoutes(router, &routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, log),
		Catalog: handlers.NewCatalogHandler(catalogService, log),
		Cart:    handlers.NewCartHandler(cartService, log),
		Booking: handlers.NewBookingHandler(bookingService, log),
		Health:  handlers.NewHealthHandler(checks, log),
		Stream:  stream,
	}, authService, log)

	app.router = router
	return app, nil
}

func newStore(cfg *config.Config) (storage.Store, *cache.RedisCache, error) {
	if cfg.Storage.Driver != config.DriverRedis {
		return storage.NewMemoryStore(), nil, nil
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    cfg.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	expiry := storage.ExpirePrefix(kv.SessionKeyPrefix, cfg.Storage.SessionTTL)
	return storage.NewRedisStore(redisCache, expiry), redisCache, nil
}

func newVehicleRepository(ctx context.Context, cfg *config.Config, store storage.Store, log *logger.Logger) (interfaces.VehicleRepository, *database.MongoDB, error) {
	if cfg.Catalog.Driver != config.DriverMongoDB {
		if cfg.Catalog.Seed {
			if err := kv.SeedVehicles(ctx, store, models.DefaultFleet()); err != nil {
				return nil, nil, fmt.Errorf("failed to seed catalog: %w", err)
			}
		}
		return kv.NewVehicleRepository(store), nil, nil
	}

	db, err := database.NewMongoDB(ctx, &database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	var seed []interface{}
	if cfg.Catalog.Seed {
		seed = mongodb.SeedDocuments(models.DefaultFleet())
	}
	if err := database.NewMigrator(db.Database, seed, log).Up(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return mongodb.NewVehicleRepository(db.Database), db, nil
}

func newPaymentProcessor(cfg *config.Config) (payment.Processor, error) {
	switch cfg.Payment.Provider {
	case config.ProviderStripe:
		return payment.NewStripeProcessor(cfg.Payment.Stripe.SecretKey), nil
	case config.ProviderSimulated:
		sim := cfg.Payment.Simulated
		return payment.NewSimulatedProcessor(sim.Latency, sim.DeclineRate, sim.TimeoutRate), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.Payment.Provider)
	}
}
