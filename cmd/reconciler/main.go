package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fuelpoints-ledger/internal/config"
	"github.com/fuelpoints-ledger/internal/data/mongo"
	"github.com/fuelpoints-ledger/internal/engine"
	"github.com/fuelpoints-ledger/internal/logger"
	"github.com/fuelpoints-ledger/internal/platform/persistence"
)

// The reconciler is an operator-invoked batch job: it rebuilds every daily
// rollup from the ledger and exits. It is meant to run while no writes are
// in flight, typically outside business hours.
func main() {
	// Create base context cancelled by interrupt signals so a half-finished
	// rebuild can be stopped cleanly
	appCtx, cancelAppCtx := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("reconciler")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Reconciler",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize MongoDB with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	db := mongoDB.Database()
	transactionRepo := mongo.NewTransactionRepository(log, db)
	statsRepo := mongo.NewStatsRepository(log, db)

	reconciler := engine.NewReconciler(
		log,
		transactionRepo,
		statsRepo,
		cfg.Engine.BusinessDayOffset,
		cfg.WorkerPool.Size,
	)

	report, rebuildErr := reconciler.Rebuild(appCtx)

	if err := mongoDB.Close(context.Background()); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if rebuildErr != nil {
		log.Error("Rebuild failed", "error", rebuildErr)
		os.Exit(1)
	}

	log.Info("Rebuild finished",
		"records", report.Records,
		"rebuilt", report.Rebuilt,
		"deleted", report.Deleted,
		"duration", report.Duration,
	)
}
