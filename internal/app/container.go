// Package app wires the application's contexts together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	identityApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/application"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/domain/user"
	identityAuth "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/infrastructure/auth"
	identityPersistence "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/infrastructure/persistence"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/identity/infrastructure/session"
	sharedApplication "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/application"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database"
	_ "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/postgres"
	_ "github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/database/sqlite"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/eventbus"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/shared/infrastructure/outbox"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/commands"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/queries"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/application/services"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/domain/task"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/infrastructure/ai"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/internal/tasks/infrastructure/persistence"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/config"
	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

// Container holds all wired application components.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DBConn      database.Connection
	RedisClient *redis.Client

	// Repositories
	TaskRepo   task.Repository
	UserRepo   user.Repository
	OutboxRepo outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Domain services
	UrgencyCalculator  *services.UrgencyCalculator
	OrderingService    *services.OrderingService
	RecurrenceExpander *services.RecurrenceExpander

	// Task command handlers
	CreateTaskHandler      *commands.CreateTaskHandler
	UpdateTaskHandler      *commands.UpdateTaskHandler
	DeleteTaskHandler      *commands.DeleteTaskHandler
	ReorderTasksHandler    *commands.ReorderTasksHandler
	SuggestSubtasksHandler *commands.SuggestSubtasksHandler

	// Task query handlers
	ListTasksHandler *queries.ListTasksHandler
	GetTaskHandler   *queries.GetTaskHandler

	// Identity
	AuthService *identityApplication.AuthService

	// Observability
	Health  *observability.HealthRegistry
	Metrics observability.Metrics
}

// NewContainer wires the full application from configuration.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Health:  observability.NewHealthRegistry(),
		Metrics: observability.NewInMemoryMetrics(),
	}

	conn, err := database.NewConnection(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.Health.Register("database", observability.PingCheck(conn.Ping))
	logger.Info("connected to database", "driver", conn.Driver())

	// Redis backs login sessions. Development can run without it; the
	// session store then rejects refreshes, which only disables token
	// rotation, not login itself.
	var sessionStore session.Store
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to connect to Redis: %w", err)
			}
			logger.Warn("Redis not available, refresh tokens disabled", "error", err)
		} else {
			c.RedisClient = client
			c.Health.Register("redis", observability.PingCheck(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
			logger.Info("connected to Redis")
		}
	}
	if c.RedisClient != nil {
		sessionStore = session.NewRedisStore(c.RedisClient)
	} else {
		sessionStore = session.NewNullStore()
	}

	// Repositories and unit of work
	c.TaskRepo = persistence.NewSQLTaskRepository(conn)
	c.UserRepo = identityPersistence.NewSQLUserRepository(conn)
	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	// Event publisher
	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			conn.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	} else {
		c.EventPublisher = publisher
		c.Health.Register("broker", observability.PingCheck(publisher.Ping))
	}

	// Domain services
	c.UrgencyCalculator = services.NewUrgencyCalculator(services.DefaultUrgencyConfig())
	c.OrderingService = services.NewOrderingService(c.TaskRepo, c.UnitOfWork)
	c.RecurrenceExpander = services.NewRecurrenceExpander(services.ExpanderConfig{
		HorizonCount: cfg.RecurrenceHorizonCount,
		HorizonSpan:  time24h(cfg.RecurrenceHorizonDays),
	})

	// AI breakdown provider: Gemini behind a circuit breaker when a key
	// is configured, static fallback steps otherwise.
	var provider commands.BreakdownProvider
	if cfg.GeminiAPIKey != "" {
		provider = ai.NewBreakerProvider(ai.NewGeminiClient(ai.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}), logger)
	} else {
		logger.Warn("no Gemini API key configured, serving generic breakdowns")
		provider = ai.NewStaticProvider()
	}

	// Task handlers
	c.CreateTaskHandler = commands.NewCreateTaskHandler(
		c.TaskRepo, c.OutboxRepo, c.UnitOfWork,
		c.UrgencyCalculator, c.OrderingService, c.RecurrenceExpander,
	)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, c.UrgencyCalculator)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.ReorderTasksHandler = commands.NewReorderTasksHandler(c.OrderingService, c.OutboxRepo, c.UnitOfWork)
	c.SuggestSubtasksHandler = commands.NewSuggestSubtasksHandler(c.TaskRepo, c.UnitOfWork, provider)
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)

	// Identity
	tokenCfg := identityAuth.DefaultTokenConfig(cfg.JWTSecret)
	tokenCfg.AccessTTL = cfg.AccessTokenTTL
	tokenCfg.RefreshTTL = cfg.RefreshTokenTTL
	c.AuthService = identityApplication.NewAuthService(
		c.UserRepo, c.OutboxRepo, c.UnitOfWork,
		identityAuth.NewPasswordHasher(),
		identityAuth.NewTokenManager(tokenCfg),
		sessionStore,
	)

	return c, nil
}

// Close releases the container's connections.
func (c *Container) Close() {
	if closer, ok := c.EventPublisher.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.DBConn != nil {
		_ = c.DBConn.Close()
	}
}

func time24h(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
