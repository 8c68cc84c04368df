package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intrinsiq/valuation-engine/internal/config"
	"github.com/intrinsiq/valuation-engine/internal/database"
	"github.com/intrinsiq/valuation-engine/internal/modules/strategy"
	"github.com/intrinsiq/valuation-engine/internal/modules/strategy/jobs"
	"github.com/intrinsiq/valuation-engine/internal/scheduler"
	"github.com/intrinsiq/valuation-engine/internal/server"
	"github.com/intrinsiq/valuation-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting valuation engine")

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	backtestCfg := strategy.DefaultBacktestConfig()
	backtestCfg.HorizonWeeks = cfg.HorizonWeeks
	backtestCfg.InitialCapital = cfg.InitialCapital

	strategyRepo := strategy.NewRepository(db.Conn(), log)
	strategyService := strategy.NewService(strategyRepo, backtestCfg, log)

	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Weekly refresh after the Friday close data lands.
	refresh := jobs.NewRefreshJob(strategyService, log)
	if err := sched.AddJob("0 6 * * SAT", refresh); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}

	srv := server.New(server.Config{
		Port:            cfg.Port,
		Log:             log,
		Config:          cfg,
		StrategyService: strategyService,
		DevMode:         cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
