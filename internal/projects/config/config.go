package config

import (
	"errors"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" envDefault:"localhost"`
	Port         string        `env:"SERVER_PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// RedisConfig configures the optional Redis change stream.
type RedisConfig struct {
	Enabled      bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host         string `env:"REDIS_HOST" envDefault:"localhost"`
	Port         string `env:"REDIS_PORT" envDefault:"6379"`
	Password     string `env:"REDIS_PASSWORD"`
	Database     int    `env:"REDIS_DB" envDefault:"0"`
	MaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS    bool   `env:"REDIS_TLS" envDefault:"false"`

	// StreamKey is the Redis stream that receives project change events.
	StreamKey string `env:"REDIS_STREAM_KEY" envDefault:"projects:changes"`
	// StreamMaxLength caps the stream with an approximate MAXLEN trim.
	StreamMaxLength int64 `env:"REDIS_STREAM_MAX_LENGTH" envDefault:"10000"`
}

// GetAddr returns host:port for the Redis server.
func (c RedisConfig) GetAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// EventBusConfig controls how change events reach their subscribers.
type EventBusConfig struct {
	Async      bool          `env:"EVENT_BUS_ASYNC" envDefault:"false"`
	MaxRetries int           `env:"EVENT_BUS_MAX_RETRIES" envDefault:"0"`
	RetryDelay time.Duration `env:"EVENT_BUS_RETRY_DELAY" envDefault:"100ms"`
}

// ProjectsConfig holds all configuration for the projects module.
type ProjectsConfig struct {
	// BasePath is the collection route, e.g. "/projects".
	BasePath string `env:"PROJECTS_BASE_PATH" envDefault:"/projects"`

	// ChangesPath serves recent change events when the Redis stream is enabled.
	ChangesPath string `env:"CHANGES_PATH" envDefault:"/changes"`

	// WebSocketPath is the endpoint path for the change feed.
	WebSocketPath string `env:"WEBSOCKET_PATH" envDefault:"/ws/projects"`

	// ClientSendChannelBuffer is the per-client buffer for change feed messages.
	// A client whose buffer is full misses messages instead of blocking the bus.
	ClientSendChannelBuffer int `env:"CLIENT_SEND_CHANNEL_BUFFER" envDefault:"16"`

	// WebSocketReadTimeout drops change feed clients that stop answering pings.
	WebSocketReadTimeout time.Duration `env:"WEBSOCKET_READ_TIMEOUT" envDefault:"60s"`

	EventBus EventBusConfig

	Redis RedisConfig
}

// LoadServerConfig loads the HTTP server configuration from the environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load server configuration from environment: " + err.Error())
	}
	if cfg.Port == "" {
		return nil, errors.New("SERVER_PORT must not be empty")
	}
	return cfg, nil
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*ProjectsConfig, error) {
	cfg := &ProjectsConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load projects configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.EventBus); err != nil {
		return nil, errors.New("failed to load event bus configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalises paths and checks the values that env tags cannot express.
func (c *ProjectsConfig) Validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || len(c.BasePath) < 2 {
		return errors.New("PROJECTS_BASE_PATH must start with '/' and name a path")
	}
	c.BasePath = strings.TrimSuffix(c.BasePath, "/")

	if c.WebSocketPath == "" {
		c.WebSocketPath = "/ws/projects"
	}
	if c.ChangesPath == "" {
		c.ChangesPath = "/changes"
	}
	if !strings.HasPrefix(c.ChangesPath, "/") {
		return errors.New("CHANGES_PATH must start with '/'")
	}
	if c.ClientSendChannelBuffer <= 0 {
		c.ClientSendChannelBuffer = 16
	}
	if c.WebSocketReadTimeout <= 0 {
		c.WebSocketReadTimeout = 60 * time.Second
	}
	if c.EventBus.MaxRetries < 0 {
		return errors.New("EVENT_BUS_MAX_RETRIES must not be negative")
	}
	if c.Redis.Enabled && c.Redis.StreamKey == "" {
		return errors.New("REDIS_STREAM_KEY is required when REDIS_ENABLED is set")
	}
	return nil
}

// DefaultProjectsConfig returns a ProjectsConfig with default values.
func DefaultProjectsConfig() *ProjectsConfig {
	return &ProjectsConfig{
		BasePath:                "/projects",
		ChangesPath:             "/changes",
		WebSocketPath:           "/ws/projects",
		ClientSendChannelBuffer: 16,
		WebSocketReadTimeout:    60 * time.Second,
		EventBus: EventBusConfig{
			RetryDelay: 100 * time.Millisecond,
		},
		Redis: RedisConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			StreamKey:       "projects:changes",
			StreamMaxLength: 10000,
		},
	}
}
