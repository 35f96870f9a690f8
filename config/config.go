package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendLocal    = "local"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Logger   LoggerConfig   `yaml:"logger"`
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	Cart     CartConfig     `yaml:"cart"`
}

type LoggerConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"console"`
}

type StorageConfig struct {
	Backend   string        `yaml:"backend" env:"STORAGE_BACKEND" env-default:"local"`
	Key       string        `yaml:"key" env:"CART_STORAGE_KEY" env-default:"azmCart"`
	Session   string        `yaml:"session" env:"CART_SESSION"`
	LocalPath string        `yaml:"local_path" env:"CART_LOCAL_PATH" env-default:"storefront.db"`
	TTL       time.Duration `yaml:"ttl" env:"CART_TTL" env-default:"0s"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type NATSConfig struct {
	URL            string        `yaml:"url" env:"NATS_URL"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NATS_CONNECT_TIMEOUT" env-default:"5s"`
	CommandSubject string        `yaml:"command_subject" env:"NATS_COMMAND_SUBJECT" env-default:"storefront.cart.command"`
	EventSubject   string        `yaml:"event_subject" env:"NATS_EVENT_SUBJECT" env-default:"storefront.cart.event"`
	DedupeTTL      time.Duration `yaml:"dedupe_ttl" env:"NATS_DEDUPE_TTL" env-default:"24h"`
}

type CartConfig struct {
	Currency string `yaml:"currency" env:"CART_CURRENCY" env-default:"usd"`
}

// Load reads the YAML file at path when given, otherwise the environment.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage.local_path is required for the %s backend", BackendLocal)
		}
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the %s backend", BackendRedis)
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// Shared reports whether the backend is shared between sessions, in which
// case the storage key is scoped by session.
func (s StorageConfig) Shared() bool {
	return s.Backend == BackendRedis || s.Backend == BackendPostgres
}
