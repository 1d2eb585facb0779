// Package config loads server configuration from a YAML file and
// SEATING_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SEATING_"

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Directory sources
const (
	DirectoryStorage = "storage"
	DirectoryHTTP    = "http"
)

// Config is the complete server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Directory DirectoryConfig `yaml:"directory"`
	Seating   SeatingConfig   `yaml:"seating"`
	AutoSave  AutoSaveConfig  `yaml:"autosave"`
	ViewState ViewStateConfig `yaml:"viewstate"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// APIToken, when set, must be sent as a bearer token
	APIToken string `yaml:"api_token"`
	// APITokenHash is a bcrypt hash accepted in place of a plain APIToken
	APITokenHash string `yaml:"api_token_hash"`
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
	SQL   SQLConfig   `yaml:"sql"`
}

// RedisConfig holds redis storage settings
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	ViewStateTTL time.Duration `yaml:"view_state_ttl"`
}

// SQLConfig holds database/sql storage settings
type SQLConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// DirectoryConfig selects where attendees come from
type DirectoryConfig struct {
	Type    string        `yaml:"type"`
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// SeatingConfig holds allocation settings
type SeatingConfig struct {
	// Eligibility is "confirmed_or_pending" or "confirmed_only"
	Eligibility string `yaml:"eligibility"`

	// IdleTimeout drops event sessions unused for this long; 0 keeps them until shutdown
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// AutoSaveConfig holds debounce settings
type AutoSaveConfig struct {
	QuietPeriod time.Duration `yaml:"quiet_period"`
	SaveTimeout time.Duration `yaml:"save_timeout"`
}

// ViewStateConfig holds viewport persistence settings
type ViewStateConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// EventsConfig configures domain event delivery
type EventsConfig struct {
	BufferSize     int             `yaml:"buffer_size"`
	PublishTimeout time.Duration   `yaml:"publish_timeout"`
	Redis          RedisSinkConfig `yaml:"redis"`
	AMQP           AMQPSinkConfig  `yaml:"amqp"`
	MQTT           MQTTSinkConfig  `yaml:"mqtt"`
}

// RedisSinkConfig publishes events on redis pub/sub using the storage connection
type RedisSinkConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	ChannelPrefix string `yaml:"channel_prefix"`
}

// AMQPSinkConfig publishes events to a RabbitMQ queue
type AMQPSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Queue   string `yaml:"queue"`
}

// MQTTSinkConfig publishes events to an MQTT broker
type MQTTSinkConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: StorageMemory,
			Redis: RedisConfig{
				URL:          "redis://localhost:6379",
				PoolSize:     10,
				ViewStateTTL: 30 * 24 * time.Hour,
			},
			SQL: SQLConfig{
				Driver:       "sqlite3",
				DSN:          "file:seating.db?_busy_timeout=5000&_foreign_keys=on",
				MaxOpenConns: 1,
			},
		},
		Directory: DirectoryConfig{
			Type:    DirectoryStorage,
			Timeout: 10 * time.Second,
		},
		Seating: SeatingConfig{
			Eligibility: "confirmed_or_pending",
			IdleTimeout: 30 * time.Minute,
		},
		AutoSave: AutoSaveConfig{
			QuietPeriod: time.Second,
			SaveTimeout: 10 * time.Second,
		},
		ViewState: ViewStateConfig{
			Delay: 500 * time.Millisecond,
		},
		Events: EventsConfig{
			BufferSize:     256,
			PublishTimeout: 5 * time.Second,
			AMQP:           AMQPSinkConfig{Queue: "seating.events"},
			MQTT:           MQTTSinkConfig{ClientID: "seating-server", TopicPrefix: "seating/events", QoS: 1},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "seating",
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func applyEnvOverrides(cfg *Config, lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	// Server
	str("SERVER_HOST", &cfg.Server.Host)
	num("SERVER_PORT", &cfg.Server.Port)
	str("SERVER_API_TOKEN", &cfg.Server.APIToken)
	str("SERVER_API_TOKEN_HASH", &cfg.Server.APITokenHash)

	// Storage
	str("STORAGE_TYPE", &cfg.Storage.Type)
	str("STORAGE_REDIS_URL", &cfg.Storage.Redis.URL)
	str("STORAGE_SQL_DRIVER", &cfg.Storage.SQL.Driver)
	str("STORAGE_SQL_DSN", &cfg.Storage.SQL.DSN)

	// Directory
	str("DIRECTORY_TYPE", &cfg.Directory.Type)
	str("DIRECTORY_URL", &cfg.Directory.URL)
	str("DIRECTORY_TOKEN", &cfg.Directory.Token)

	// Seating
	str("SEATING_ELIGIBILITY", &cfg.Seating.Eligibility)
	dur("SEATING_IDLE_TIMEOUT", &cfg.Seating.IdleTimeout)
	dur("AUTOSAVE_QUIET_PERIOD", &cfg.AutoSave.QuietPeriod)
	dur("VIEWSTATE_DELAY", &cfg.ViewState.Delay)

	// Events
	flag("EVENTS_REDIS_ENABLED", &cfg.Events.Redis.Enabled)
	str("EVENTS_REDIS_URL", &cfg.Events.Redis.URL)
	flag("EVENTS_AMQP_ENABLED", &cfg.Events.AMQP.Enabled)
	str("EVENTS_AMQP_URL", &cfg.Events.AMQP.URL)
	flag("EVENTS_MQTT_ENABLED", &cfg.Events.MQTT.Enabled)
	str("EVENTS_MQTT_BROKER", &cfg.Events.MQTT.Broker)
	str("EVENTS_MQTT_USERNAME", &cfg.Events.MQTT.Username)
	str("EVENTS_MQTT_PASSWORD", &cfg.Events.MQTT.Password)

	// Logging and metrics
	str("LOGGING_LEVEL", &cfg.Logging.Level)
	str("LOGGING_FORMAT", &cfg.Logging.Format)
	flag("METRICS_ENABLED", &cfg.Metrics.Enabled)

	return errors.Join(errs...)
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.APITokenHash != "" {
		if _, err := bcrypt.Cost([]byte(c.Server.APITokenHash)); err != nil {
			errs = append(errs, fmt.Errorf("server.api_token_hash: %w", err))
		}
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.Redis.URL == "" {
			errs = append(errs, errors.New("storage.redis.url is required for redis storage"))
		}
	case StorageSQL:
		if c.Storage.SQL.Driver != "sqlite3" && c.Storage.SQL.Driver != "mysql" {
			errs = append(errs, fmt.Errorf("storage.sql.driver %q must be sqlite3 or mysql", c.Storage.SQL.Driver))
		}
		if c.Storage.SQL.DSN == "" {
			errs = append(errs, errors.New("storage.sql.dsn is required for sql storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type %q must be memory, redis or sql", c.Storage.Type))
	}

	switch c.Directory.Type {
	case DirectoryStorage:
	case DirectoryHTTP:
		if c.Directory.URL == "" {
			errs = append(errs, errors.New("directory.url is required for the http directory"))
		}
	default:
		errs = append(errs, fmt.Errorf("directory.type %q must be storage or http", c.Directory.Type))
	}

	switch c.Seating.Eligibility {
	case "", "confirmed_or_pending", "confirmed_only":
	default:
		errs = append(errs, fmt.Errorf("seating.eligibility %q is not supported", c.Seating.Eligibility))
	}
	if c.Seating.IdleTimeout < 0 {
		errs = append(errs, errors.New("seating.idle_timeout must not be negative"))
	}

	if c.AutoSave.QuietPeriod <= 0 {
		errs = append(errs, errors.New("autosave.quiet_period must be positive"))
	}
	if c.Events.BufferSize <= 0 {
		errs = append(errs, errors.New("events.buffer_size must be positive"))
	}

	if c.Events.Redis.Enabled && c.Events.Redis.URL == "" && c.Storage.Type != StorageRedis {
		errs = append(errs, errors.New("events.redis.url is required unless storage is redis"))
	}
	if c.Events.AMQP.Enabled && c.Events.AMQP.URL == "" {
		errs = append(errs, errors.New("events.amqp.url is required when the amqp sink is enabled"))
	}
	if c.Events.MQTT.Enabled {
		if c.Events.MQTT.Broker == "" {
			errs = append(errs, errors.New("events.mqtt.broker is required when the mqtt sink is enabled"))
		}
		if c.Events.MQTT.QoS < 0 || c.Events.MQTT.QoS > 2 {
			errs = append(errs, fmt.Errorf("events.mqtt.qos %d must be 0, 1 or 2", c.Events.MQTT.QoS))
		}
	}

	if _, err := c.Logging.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, fmt.Errorf("logging.format %q must be json or text", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured level
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds the process logger
func (l LoggingConfig) NewLogger() *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
