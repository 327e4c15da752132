package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/app"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/migrations"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/services"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/config"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLoggerFor(cfg.AppEnv, cfg.LogLevel)
	logger.Info("starting mastertasker worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize worker", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := migrations.Run(ctx, container.DBConn); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Outbox processor drains staged domain events to the broker.
	processor := outbox.NewProcessor(
		container.OutboxRepo,
		container.EventPublisher,
		outbox.ProcessorConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxRetries:   cfg.OutboxMaxRetries,
			Metrics:      container.Metrics,
		},
		logger,
	)
	processor.Start(ctx)
	defer processor.Stop()

	// Published outbox rows are retained for a few days for debugging,
	// then removed.
	go runOutboxCleanup(ctx, cfg, container, logger)

	// Scheduled top-up keeps every recurring series holding a full
	// horizon of upcoming instances.
	maintenance := services.NewSeriesMaintenance(
		container.TaskRepo,
		container.UnitOfWork,
		container.RecurrenceExpander,
		container.UrgencyCalculator,
		container.OrderingService,
		logger,
	)
	scheduler := cron.New(cron.WithSeconds())
	_, err = scheduler.AddFunc(cfg.SeriesTopUpSchedule, func() {
		created, err := maintenance.TopUp(ctx)
		if err != nil {
			logger.Error("series top-up run failed", "error", err)
			return
		}
		logger.Info("series top-up run completed", "created", created)
	})
	if err != nil {
		logger.Error("invalid top-up schedule", "schedule", cfg.SeriesTopUpSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go serveHealth(cfg.WorkerHealthAddr, container, logger)

	logger.Info("worker running",
		"poll_interval", cfg.OutboxPollInterval,
		"topup_schedule", cfg.SeriesTopUpSchedule,
	)
	<-ctx.Done()
	logger.Info("worker shutting down")
}

func runOutboxCleanup(ctx context.Context, cfg *config.Config, container *app.Container, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer ticker.Stop()
	retention := time.Duration(cfg.OutboxRetentionDays) * 24 * time.Hour

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := container.OutboxRepo.DeleteOld(ctx, retention)
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("outbox cleanup completed", "deleted", deleted)
			}
		}
	}
}

func serveHealth(addr string, container *app.Container, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		results := container.Health.Check(r.Context())
		status := observability.Overall(results)

		code := http.StatusOK
		if status == observability.HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":     status,
			"components": results,
		})
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("worker health endpoint failed", "error", err)
	}
}
