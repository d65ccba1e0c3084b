package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront backend.
type Config struct {
	AppPort  string
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Orders   OrderConfig
	Log      LogConfig
}

// DatabaseConfig describes the order/product store connection.
type DatabaseConfig struct {
	Driver          string // "postgres" or "sqlite"
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MaxRetries      int
}

// RabbitMQConfig holds broker details. An empty URL disables order events.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// RedisConfig holds cart store details. An empty Addr selects the in-memory cart store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

// AuthConfig holds staff authentication settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// MaxOrderIDPrefixLen leaves room in the varchar(32) order id for the date
// and a sequence of up to six digits.
const MaxOrderIDPrefixLen = 16

// OrderConfig controls how web orders are minted and tagged.
type OrderConfig struct {
	IDPrefix string
	Location *time.Location
	Method   string
	BoxID    string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=homemart port=5432 sslmode=disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("TX_MAX_RETRIES", 3)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "order_queue")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CART_TTL", 72*time.Hour)
	v.SetDefault("JWT_SECRET", "change_me")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("ORDER_ID_PREFIX", "HM")
	v.SetDefault("ORDER_TIMEZONE", "UTC")
	v.SetDefault("ORDER_METHOD", "Pedido Web")
	v.SetDefault("ORDER_BOX_ID", "WEB")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)
}

// Load reads an optional .env file, applies defaults and environment
// variables to v and returns the resulting Config.
func Load(v *viper.Viper, envFiles ...string) (*Config, error) {
	// A missing .env file is fine, the process environment still applies.
	_ = godotenv.Load(envFiles...)

	SetDefaults(v)
	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("ORDER_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_TIMEZONE %q: %w", v.GetString("ORDER_TIMEZONE"), err)
	}

	cfg := &Config{
		AppPort: v.GetString("APP_PORT"),
		Database: DatabaseConfig{
			Driver:          v.GetString("DATABASE_DRIVER"),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			MaxRetries:      v.GetInt("TX_MAX_RETRIES"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CartTTL:  v.GetDuration("CART_TTL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("TOKEN_TTL"),
		},
		Orders: OrderConfig{
			IDPrefix: v.GetString("ORDER_ID_PREFIX"),
			Location: loc,
			Method:   v.GetString("ORDER_METHOD"),
			BoxID:    v.GetString("ORDER_BOX_ID"),
		},
		Log: LogConfig{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Orders.IDPrefix == "" {
		return nil, fmt.Errorf("ORDER_ID_PREFIX must not be empty")
	}
	if len(cfg.Orders.IDPrefix) > MaxOrderIDPrefixLen {
		return nil, fmt.Errorf("ORDER_ID_PREFIX %q longer than %d characters", cfg.Orders.IDPrefix, MaxOrderIDPrefixLen)
	}

	return cfg, nil
}
