package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RedisConfig enables the payment method cache when Enabled is set.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MerchantConfig holds the gateway credentials. Both values are validated
// when the service is wired, not here.
type MerchantConfig struct {
	ID     string `mapstructure:"id"`
	Secret string `mapstructure:"secret"`
}

type GatewayConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	SuccessURL     string `mapstructure:"success_url"`
	ErrorURL       string `mapstructure:"error_url"`
	// Mock answers checkouts locally instead of calling the gateway.
	Mock bool `mapstructure:"mock"`
}

func (g *GatewayConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

type CatalogConfig struct {
	// File is a YAML capability catalog. When empty, capabilities are fetched
	// from the gateway.
	File            string `mapstructure:"file"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
	// RefreshIntervalMinutes warms the redis method cache. Zero disables it.
	RefreshIntervalMinutes int `mapstructure:"refresh_interval_minutes"`
}

func (c *CatalogConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func (c *CatalogConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

type JournalConfig struct {
	// Backend is "gorm", "mongo" or "none".
	Backend       string `mapstructure:"backend"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// RateLimitConfig caps checkout requests per client IP. It only applies when
// redis is enabled; zero disables a window.
type RateLimitConfig struct {
	CheckoutPerMinute int `mapstructure:"checkout_per_minute"`
	CheckoutPerHour   int `mapstructure:"checkout_per_hour"`
}
