package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/availability"
	"github.com/mauv0809/courtside/internal/clock"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	server "github.com/mauv0809/courtside/internal/http"
	"github.com/mauv0809/courtside/internal/invite"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/notifier"
	"github.com/mauv0809/courtside/internal/players"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/rating"
	"github.com/mauv0809/courtside/internal/result"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	clk := clock.NewSystem()

	var algo rating.Algorithm
	switch cfg.Rating.Algorithm {
	case "deterministic":
		detCfg := rating.DefaultDeterministicConfig()
		detCfg.BaseDelta = cfg.Rating.BaseDelta
		algo = rating.NewDeterministic(detCfg)
	case "elo-decay":
		eloCfg := rating.DefaultEloDecayConfig()
		eloCfg.KBase = cfg.Rating.KBase
		eloCfg.InactivityThresholdDays = cfg.Rating.InactivityThresholdDays
		algo = rating.NewEloDecay(eloCfg)
	default:
		log.Fatalf("Unknown rating algorithm: %s", cfg.Rating.Algorithm)
	}
	log.Info("Rating algorithm selected", "algorithm", algo.Name())

	pubsubClient := pubsub.New(cfg.ProjectID)
	notify := notifier.New(pubsubClient)

	playerStore := players.New(db)
	availabilityStore := availability.New(db)
	matchStore := match.New(db)
	inviteStore := invite.New(db)
	resultStore := result.New(db)

	matchSvc := match.NewService(matchStore, resultStore, playerStore, algo, notify, metricsSvc, clk)
	inviteSvc := invite.NewService(inviteStore, availabilityStore, playerStore, notify, metricsSvc, clk, time.Duration(cfg.Invite.TTLHours)*time.Hour)
	resultSvc := result.NewService(resultStore, matchStore, playerStore, algo, notify, metricsSvc, clk)

	s := server.NewServer(
		availabilityStore,
		inviteSvc,
		matchSvc,
		resultSvc,
		playerStore,
		metricsSvc,
		metricsHandler,
		cfg,
		clk,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
