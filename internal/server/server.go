// Package server boots the application: config, database, cache, storage,
// queue workers, event listeners, then the HTTP listener with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ephremw/gebeya/app/jobs"
	"github.com/ephremw/gebeya/config"
	_ "github.com/ephremw/gebeya/database/migrations"
	"github.com/ephremw/gebeya/internal/kernel"
	"github.com/ephremw/gebeya/pkg/cache"
	"github.com/ephremw/gebeya/pkg/database"
	"github.com/ephremw/gebeya/pkg/logger"
	"github.com/ephremw/gebeya/pkg/migration"
	"github.com/ephremw/gebeya/pkg/notification"
	"github.com/ephremw/gebeya/pkg/queue"
	"github.com/ephremw/gebeya/pkg/schedule"
	"github.com/ephremw/gebeya/pkg/storage"
)

const queueWorkers = 4

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	// Redis is optional: cache and queue degrade to in-process fallbacks.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, using in-memory queue", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	storage.Connect()

	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))
	registerListeners()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs.Register()
	queue.UseDB(database.DB)
	queue.StartWorkers(ctx, queueWorkers)

	registerTasks()
	schedule.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.New(database.DB).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
