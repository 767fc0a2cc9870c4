package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the food ordering system
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Memory   MemoryConfig   `yaml:"memory"`
	Media    MediaConfig    `yaml:"media"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `yaml:"port"`
	MaxConcurrent   int           `yaml:"max_concurrent"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	Migrations string `yaml:"migrations"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

// RedisConfig holds the catalog cache settings
type RedisConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Addr       string        `yaml:"addr"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	CatalogTTL time.Duration `yaml:"catalog_ttl"`
}

// StorageConfig selects the backing store
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// MemoryConfig seeds the memory driver, which has no users table or catalog of its own
type MemoryConfig struct {
	Tokens []StaticToken `yaml:"tokens"`
	Foods  []SeedFood    `yaml:"foods"`
}

// StaticToken maps a bearer token to a user
type StaticToken struct {
	Token  string `yaml:"token"`
	UserID int64  `yaml:"user_id"`
	Email  string `yaml:"email"`
	Role   string `yaml:"role"`
}

// SeedFood is a catalog entry loaded at startup. Price is a decimal string.
type SeedFood struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Image       string  `yaml:"image"`
	Category    string  `yaml:"category"`
	Rating      float64 `yaml:"rating"`
	Available   *bool   `yaml:"available"`
}

// MediaConfig controls how food image URLs are rendered
type MediaConfig struct {
	BaseURL    string `yaml:"base_url"`
	PathPrefix string `yaml:"path_prefix"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file, then applies environment overrides and defaults
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.Server.MaxConcurrent)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.MaxConcurrent == 0 {
		c.Server.MaxConcurrent = 50
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.Migrations == "" {
		c.Database.Migrations = "migrations"
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	if c.Redis.CatalogTTL == 0 {
		c.Redis.CatalogTTL = time.Minute
	}
	if c.Media.PathPrefix == "" {
		c.Media.PathPrefix = "/media/"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv overrides file values with environment variables when they are set
func (c *Config) applyEnv() error {
	c.Database.Host = getEnv("DATABASE_HOST", c.Database.Host)
	c.Database.User = getEnv("DATABASE_USER", c.Database.User)
	c.Database.Password = getEnv("DATABASE_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DATABASE_NAME", c.Database.Database)
	c.RabbitMQ.Host = getEnv("RABBITMQ_HOST", c.RabbitMQ.Host)
	c.RabbitMQ.User = getEnv("RABBITMQ_USER", c.RabbitMQ.User)
	c.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", c.RabbitMQ.Password)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)

	ports := []struct {
		key string
		dst *int
	}{
		{"DATABASE_PORT", &c.Database.Port},
		{"RABBITMQ_PORT", &c.RabbitMQ.Port},
		{"SERVER_PORT", &c.Server.Port},
	}
	for _, p := range ports {
		v := os.Getenv(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", p.key, err)
		}
		*p.dst = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port, c.RabbitMQ.VHost)
}
