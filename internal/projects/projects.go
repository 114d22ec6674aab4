package projects

import (
	"context"
	"fmt"

	httpadapter "projects-api/internal/projects/adapter/http"
	"projects-api/internal/projects/adapter/persistence"
	"projects-api/internal/projects/adapter/persistence/memory"
	"projects-api/internal/projects/config"
	"projects-api/internal/projects/usecase"
	"projects-api/internal/shared/eventbus"
	"projects-api/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ProjectsModule owns the project collection and everything that serves it.
type ProjectsModule struct {
	Config     *config.ProjectsConfig
	Store      *memory.ProjectStore
	EventBus   *eventbus.EventBus
	Usecase    usecase.ProjectUsecase
	Handler    *httpadapter.ProjectHandler
	ChangeFeed *httpadapter.ChangeFeed
	Logger     logger.Logger

	// Optional Redis change stream
	RedisClient *redis.Client
	ChangeStore *persistence.RedisChangeStore
}

// NewProjectsModule wires the module. redisClient may be nil, which disables
// the Redis change stream.
func NewProjectsModule(cfg *config.ProjectsConfig, log logger.Logger, redisClient *redis.Client) (*ProjectsModule, error) {
	if cfg == nil {
		cfg = config.DefaultProjectsConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid projects configuration: %w", err)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	log.Info("Initializing Projects Module...")

	store := memory.NewProjectStore()
	bus := eventbus.NewEventBusWithConfig(log, eventbus.BusConfig{
		AsyncProcessing: cfg.EventBus.Async,
		MaxRetries:      cfg.EventBus.MaxRetries,
		RetryDelay:      cfg.EventBus.RetryDelay,
	})
	uc := usecase.NewProjectUsecase(store, bus, log)

	feed := httpadapter.NewChangeFeed(cfg.ClientSendChannelBuffer, log)
	feed.SetReadTimeout(cfg.WebSocketReadTimeout)
	bus.SubscribeAll(feed.HandleEvent)

	m := &ProjectsModule{
		Config:      cfg,
		Store:       store,
		EventBus:    bus,
		Usecase:     uc,
		Handler:     httpadapter.NewProjectHandler(uc, log),
		ChangeFeed:  feed,
		Logger:      log,
		RedisClient: redisClient,
	}

	if redisClient != nil {
		m.ChangeStore = persistence.NewRedisChangeStore(redisClient, cfg.Redis.StreamKey, cfg.Redis.StreamMaxLength, log)
		bus.SubscribeAll(m.ChangeStore.HandleEvent)
		log.Infof("Redis change stream enabled on %s", cfg.Redis.StreamKey)
	}

	return m, nil
}

// RegisterRoutes registers the project collection, the change feed and the
// health endpoint, plus the change history when Redis is enabled.
func (m *ProjectsModule) RegisterRoutes(router fiber.Router) {
	httpadapter.RegisterHealthRoute(router, m, m.Usecase)
	m.ChangeFeed.RegisterRoutes(router, m.Config.WebSocketPath)
	if m.ChangeStore != nil {
		httpadapter.RegisterChangesRoute(router, m.Config.ChangesPath, m.ChangeStore, m.Logger)
	}
	m.Handler.RegisterRoutes(router, m.Config.BasePath)
	m.Logger.Infof("Project routes registered under %s", m.Config.BasePath)
}

// StartRealtimeServices starts background workers.
func (m *ProjectsModule) StartRealtimeServices() {
	if m.ChangeStore != nil {
		m.ChangeStore.Start()
	}
}

// HealthCheck pings Redis when the change stream is enabled.
func (m *ProjectsModule) HealthCheck(ctx context.Context) error {
	if m.ChangeStore != nil {
		if err := m.ChangeStore.Ping(ctx); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Stop disconnects change feed clients and flushes the Redis writer.
func (m *ProjectsModule) Stop() error {
	m.Logger.Info("Stopping Projects Module...")
	m.ChangeFeed.Close()
	if m.ChangeStore != nil {
		m.ChangeStore.Stop()
	}
	m.Logger.Info("Projects Module stopped.")
	return nil
}
