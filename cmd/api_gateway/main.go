package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fuelpoints-ledger/internal/api_gateway"
	"github.com/fuelpoints-ledger/internal/api_gateway/service"
	"github.com/fuelpoints-ledger/internal/config"
	"github.com/fuelpoints-ledger/internal/data/mongo"
	"github.com/fuelpoints-ledger/internal/data/postgres"
	"github.com/fuelpoints-ledger/internal/engine"
	"github.com/fuelpoints-ledger/internal/logger"
	"github.com/fuelpoints-ledger/internal/platform/messaging/producers"
	"github.com/fuelpoints-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize MongoDB with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize PostgreSQL for the audit read path
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for committed transaction events
	eventProducer, err := producers.NewTransactionEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	db := mongoDB.Database()
	stationRepo := mongo.NewStationRepository(log, db)
	customerRepo := mongo.NewCustomerRepository(log, db)
	transactionRepo := mongo.NewTransactionRepository(log, db)
	statsRepo := mongo.NewStatsRepository(log, db)
	settingsRepo := mongo.NewSettingsRepository(log, db)
	auditRepo := postgres.NewAuditRepository(log, postgresDB)

	// Initialize the transaction engine
	txEngine := engine.NewEngine(
		log,
		engine.Config{
			CommitAttempts:    cfg.Engine.CommitAttempts,
			BusinessDayOffset: cfg.Engine.BusinessDayOffset,
		},
		mongoDB,
		stationRepo,
		customerRepo,
		transactionRepo,
		statsRepo,
		settingsRepo,
		eventProducer,
	)

	// Initialize services
	transactionService := service.NewTransactionService(log, txEngine)
	customerService := service.NewCustomerService(customerRepo, transactionRepo)
	analyticsService := service.NewAnalyticsService(log, transactionRepo, statsRepo, customerRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, transactionService, customerService, analyticsService, auditService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
