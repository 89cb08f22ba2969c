package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/segyhp/loan-manager/internal/cache"
	"github.com/segyhp/loan-manager/internal/config"
	"github.com/segyhp/loan-manager/internal/database"
	"github.com/segyhp/loan-manager/internal/handler"
	"github.com/segyhp/loan-manager/internal/logger"
	"github.com/segyhp/loan-manager/internal/repository"
	"github.com/segyhp/loan-manager/internal/service"
	"github.com/segyhp/loan-manager/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		logger.Fatal(err, "Failed to configure logger")
	}

	// Initialize database
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal(err, "Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal(err, "Failed to migrate database")
	}

	opts := []service.Option{}

	// Redis is optional
	var redisClient redis.UniversalClient
	client, err := cache.NewClient(context.Background(), cfg.Redis)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Redis unavailable, portfolio summary will not be cached")
	case client != nil:
		defer client.Close()
		redisClient = client
		opts = append(opts, service.WithSummaryCache(cache.NewSummaryCache(client, cfg.GetSummaryTTL())))
	}

	ledgerService := service.NewLedgerService(service.RatesFromConfig(cfg), opts...)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, repository.NewTransactor(db))
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.RecoveryMiddleware, response.CORSMiddleware)
	router.NotFoundHandler = http.HandlerFunc(response.RouteNotFound)
	healthHandler.RegisterRoutes(router)
	ledgerHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Str("driver", cfg.Database.Driver).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(err, "Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
