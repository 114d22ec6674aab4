package di

import (
	"errors"
	"fmt"
	"sync"

	"projects-api/internal/projects"
	"projects-api/internal/projects/config"
	"projects-api/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// Container owns the long-lived dependencies and their shutdown order
type Container struct {
	mu sync.RWMutex

	ProjectsModule *projects.ProjectsModule
	RedisClient    *redis.Client
	Config         *config.ProjectsConfig
	Logger         logger.Logger
}

// NewContainer creates an empty container using log for every module.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Container{Logger: log}
}

// InitializeProjects creates the Redis client when enabled and the projects module.
func (c *Container) InitializeProjects(cfg *config.ProjectsConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ProjectsModule != nil {
		return errors.New("projects module already initialized")
	}
	if cfg == nil {
		cfg = config.DefaultProjectsConfig()
	}
	c.Config = cfg

	if cfg.Redis.Enabled {
		c.RedisClient = config.NewRedisClient(&cfg.Redis)
	}

	module, err := projects.NewProjectsModule(cfg, c.Logger, c.RedisClient)
	if err != nil {
		return fmt.Errorf("failed to create projects module: %w", err)
	}
	c.ProjectsModule = module
	return nil
}

// GetProjectsModule returns the projects module instance
func (c *Container) GetProjectsModule() *projects.ProjectsModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ProjectsModule
}

// Close stops modules before closing the connections they use.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.ProjectsModule != nil {
		if err := c.ProjectsModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop projects module: %w", err))
		}
		c.ProjectsModule = nil
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis client: %w", err))
		}
		c.RedisClient = nil
	}
	return errors.Join(errs...)
}
