package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Personal-Hub-Backend/internal/api"
	"github.com/ndewijer/Personal-Hub-Backend/internal/balance"
	"github.com/ndewijer/Personal-Hub-Backend/internal/config"
	"github.com/ndewijer/Personal-Hub-Backend/internal/database"
	"github.com/ndewijer/Personal-Hub-Backend/internal/idgen"
	"github.com/ndewijer/Personal-Hub-Backend/internal/logging"
	"github.com/ndewijer/Personal-Hub-Backend/internal/repository"
	"github.com/ndewijer/Personal-Hub-Backend/internal/scheduler"
	"github.com/ndewijer/Personal-Hub-Backend/internal/service"
	"github.com/ndewijer/Personal-Hub-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Log.Level)
	log.Logger = logger

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	logger.Info().Str("path", cfg.Database.Path).Str("version", version.Version).Msg("connected to database")

	ctx := context.Background()

	store, closeStore, err := openCacheStore(ctx, cfg.Cache, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open balance cache store")
	}
	defer closeStore()

	media, closeMedia, err := openMediaStore(ctx, cfg.Media)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open media store")
	}
	defer closeMedia()

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	// Balance aggregate
	balanceSvc := balance.NewService(
		transactionRepo,
		investmentRepo,
		balance.NewCache(store, logging.Component(logger, "balance_cache")),
		logging.Component(logger, "balance"),
	)
	ids := idgen.New(counterRepo, logging.Component(logger, "idgen"))

	// Create services
	services := api.Services{
		System: service.NewSystemService(db, balanceSvc, map[string]bool{
			"redis_cache":     cfg.Cache.Backend == config.CacheBackendRedis,
			"encrypted_cache": cfg.Cache.EncryptionKey != "",
			"gcs_media":       cfg.Media.Backend == config.MediaBackendGCS,
		}),
		Balance:     service.NewBalanceService(balanceSvc),
		Transaction: service.NewTransactionService(transactionRepo, ids, balanceSvc),
		Investment:  service.NewInvestmentService(investmentRepo, balanceSvc),
		Note:        service.NewNoteService(noteRepo, ids, media, logging.Component(logger, "notes")),
	}

	refresher, err := scheduler.New(cfg.Balance.RefreshSchedule, balanceSvc, logging.Component(logger, "scheduler"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create balance refresh scheduler")
	}
	refresher.Start()

	// Create router
	router := api.NewRouter(services, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refresher.Stop(shutdownCtx)

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	// Background refreshes still write to the database closed on return.
	if err := balanceSvc.Drain(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("balance refresh still running at exit")
	}

	logger.Info().Msg("server exited")
}
