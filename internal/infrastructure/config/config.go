package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/paygate/internal/shared/config"
	"github.com/orris-inc/paygate/internal/shared/utils"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Merchant  sharedConfig.MerchantConfig  `mapstructure:"merchant"`
	Gateway   sharedConfig.GatewayConfig   `mapstructure:"gateway"`
	Catalog   sharedConfig.CatalogConfig   `mapstructure:"catalog"`
	Journal   sharedConfig.JournalConfig   `mapstructure:"journal"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	// PAYGATE_MERCHANT_SECRET overrides merchant.secret, and so on
	v.SetEnvPrefix("PAYGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Journal.Backend {
	case "gorm", "mongo", "none":
	default:
		return fmt.Errorf("unsupported journal backend %q", c.Journal.Backend)
	}
	if c.Journal.Backend == "mongo" && c.Journal.MongoURI == "" {
		return fmt.Errorf("journal.mongo_uri is required for the mongo backend")
	}
	for key, raw := range map[string]string{
		"gateway.success_url": c.Gateway.SuccessURL,
		"gateway.error_url":   c.Gateway.ErrorURL,
	} {
		if err := utils.ValidateReturnURL(raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "Europe/Amsterdam")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "paygate.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "paygate_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Merchant defaults (must be configured)
	v.SetDefault("merchant.id", "")
	v.SetDefault("merchant.secret", "")

	// Gateway defaults
	v.SetDefault("gateway.base_url", "https://connect.icepay.com/api/v1")
	v.SetDefault("gateway.timeout_seconds", 30)
	v.SetDefault("gateway.success_url", "http://localhost:8080/payments/return")
	v.SetDefault("gateway.error_url", "http://localhost:8080/payments/return")
	v.SetDefault("gateway.mock", false)

	// Catalog defaults
	v.SetDefault("catalog.file", "")
	v.SetDefault("catalog.cache_ttl_minutes", 60)
	v.SetDefault("catalog.refresh_interval_minutes", 30)

	// Journal defaults
	v.SetDefault("journal.backend", "gorm")
	v.SetDefault("journal.mongo_uri", "")
	v.SetDefault("journal.mongo_database", "paygate")

	// Rate limit defaults
	v.SetDefault("rate_limit.checkout_per_minute", 30)
	v.SetDefault("rate_limit.checkout_per_hour", 0)
}
