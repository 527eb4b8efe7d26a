package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcsinavim/arena/internal/bootstrap"
	"github.com/rcsinavim/arena/internal/config"
	"github.com/rcsinavim/arena/internal/database"
	"github.com/rcsinavim/arena/internal/deck"
	"github.com/rcsinavim/arena/internal/duel"
	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/eventlog"
	"github.com/rcsinavim/arena/internal/handler"
	"github.com/rcsinavim/arena/internal/rewards"
	"github.com/rcsinavim/arena/internal/scheduler"
	"github.com/rcsinavim/arena/internal/server"
	"github.com/rcsinavim/arena/internal/sse"
	"github.com/rcsinavim/arena/internal/worker"
)

const (
	shutdownTimeout = 10 * time.Second

	workerCount     = 2
	workerQueueSize = 16
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	handler.InitValidator()

	dbPool, err := database.NewPool(context.Background(), cfg.GetDBConnString(), cfg.DBMaxConns, database.DefaultMaxIdleTime, database.DefaultMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	eventBus, publisher, deadLetter, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system initialization failed", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)
	store := duelstore.NewMemoryStore()

	deckService := deck.NewService(repos.Deck, publisher, cfg.DeckCacheSize, cfg.DeckCacheTTL)
	rewardsService := rewards.NewService(repos.Rewards, publisher)
	duelService := duel.NewService(repos.Duel, repos.User, deckService, store, rewardsService, publisher, cfg.DuelExpireAfter)
	eventLogService := eventlog.NewService(repos.EventLog)

	hub := sse.NewHub()
	hub.Start()
	if err := bootstrap.RegisterEventHandlers(eventBus, hub, eventLogService); err != nil {
		slog.Error("Event handler registration failed", "error", err)
		os.Exit(1)
	}

	pool := worker.NewPool(workerCount, workerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.DuelExpireCheck, worker.NewDuelExpiryJob(duelService))
	sched.Schedule(cfg.EventLogCleanupCheck, eventlog.NewCleanupJob(eventLogService, cfg.EventLogRetention))

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, deckService, duelService, store, hub)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("Server started", "port", cfg.Port, "environment", cfg.Environment)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: pool,
		Hub:        hub,
		Store:      store,
		DeadLetter: deadLetter,
	})
}
