package bootstrap

import (
	"context"
	"log/slog"

	"github.com/rcsinavim/arena/internal/duelstore"
	"github.com/rcsinavim/arena/internal/event"
	"github.com/rcsinavim/arena/internal/scheduler"
	"github.com/rcsinavim/arena/internal/server"
	"github.com/rcsinavim/arena/internal/sse"
	"github.com/rcsinavim/arena/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
	Hub        *sse.Hub
	Store      *duelstore.MemoryStore
	DeadLetter *event.DeadLetterWriter
}

// GracefulShutdown stops all application components in order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler then worker pool (stop enqueuing, drain in-flight jobs)
// 3. SSE hub and duel store (disconnect stream clients and snapshot
//    subscribers)
// 4. Dead-letter writer (flush and close the file)
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}
	if components.Store != nil {
		components.Store.Close()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if components.DeadLetter != nil {
		if err := components.DeadLetter.Close(); err != nil {
			slog.Error(LogMsgDeadLetterCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
