package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Pesokrava/storefront/internal/pricing"
)

// Config holds all configuration for the application
type Config struct {
	Env      string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Cache    CacheConfig
	Pricing  PricingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL string
}

// CacheConfig holds caching TTL configuration
type CacheConfig struct {
	CatalogTTL time.Duration
}

// PricingConfig holds the shipping and tax rules applied to carts
type PricingConfig struct {
	FreeShippingOver decimal.Decimal
	FlatShipping     decimal.Decimal
	TaxRate          decimal.Decimal
}

// Rules converts the pricing configuration into pricing rules
func (p PricingConfig) Rules() pricing.Rules {
	return pricing.Rules{
		FreeShippingOver: p.FreeShippingOver,
		FlatShipping:     p.FlatShipping,
		TaxRate:          p.TaxRate,
	}
}

// Load reads configuration from environment variables and returns a Config struct
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("NATS_URL", "nats://localhost:4222")

	v.SetDefault("CACHE_TTL_CATALOG", "300s")

	v.SetDefault("PRICING_FREE_SHIPPING_OVER", "50")
	v.SetDefault("PRICING_FLAT_SHIPPING", "5.99")
	v.SetDefault("PRICING_TAX_RATE", "0.10")

	readTimeout, err := duration(v, "SERVER_READ_TIMEOUT")
	if err != nil {
		return nil, err
	}

	writeTimeout, err := duration(v, "SERVER_WRITE_TIMEOUT")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := duration(v, "SERVER_SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := duration(v, "DB_CONN_MAX_LIFETIME")
	if err != nil {
		return nil, err
	}

	catalogTTL, err := duration(v, "CACHE_TTL_CATALOG")
	if err != nil {
		return nil, err
	}

	freeShippingOver, err := amount(v, "PRICING_FREE_SHIPPING_OVER")
	if err != nil {
		return nil, err
	}

	flatShipping, err := amount(v, "PRICING_FLAT_SHIPPING")
	if err != nil {
		return nil, err
	}

	taxRate, err := amount(v, "PRICING_TAX_RATE")
	if err != nil {
		return nil, err
	}

	allowedOrigins := strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",")
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	config := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
			AllowedOrigins:  allowedOrigins,
			RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL: v.GetString("NATS_URL"),
		},
		Cache: CacheConfig{
			CatalogTTL: catalogTTL,
		},
		Pricing: PricingConfig{
			FreeShippingOver: freeShippingOver,
			FlatShipping:     flatShipping,
			TaxRate:          taxRate,
		},
	}

	return config, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func amount(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
