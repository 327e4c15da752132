package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/adapter/api"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/app"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/migrations"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		if err := migrations.Run(ctx, container.DBConn); err != nil {
			return err
		}

		// The server embeds the outbox processor so single-process
		// deployments publish events without a separate worker.
		if cfg.OutboxProcessorEnabled {
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
		}

		serverCfg := api.DefaultServerConfig()
		serverCfg.Addr = cfg.ServerAddr

		taskHandler := api.NewTaskHandler(
			container.CreateTaskHandler,
			container.UpdateTaskHandler,
			container.DeleteTaskHandler,
			container.ReorderTasksHandler,
			container.SuggestSubtasksHandler,
			container.ListTasksHandler,
			container.GetTaskHandler,
			logger,
		)
		authHandler := api.NewAuthHandler(container.AuthService, logger)
		server := api.NewServer(serverCfg, taskHandler, authHandler, container.AuthService, container.Health, container.Metrics, logger)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
