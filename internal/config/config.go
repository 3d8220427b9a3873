package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Boundaries BoundariesConfig `yaml:"boundaries" mapstructure:"boundaries"`
	Coverage   CoverageConfig   `yaml:"coverage" mapstructure:"coverage"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// BoundariesConfig locates the country boundary data.
type BoundariesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CoverageConfig configures the coverage engine defaults.
type CoverageConfig struct {
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// StoreConfig configures the SQLite result cache.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int     `yaml:"port" mapstructure:"port"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst    int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	CacheEntries int     `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTLMins int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEOCOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("boundaries.path", "countries.geojson")
	v.SetDefault("coverage.max_depth", 3)
	v.SetDefault("store.path", "geocover.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cache_entries", 256)
	v.SetDefault("server.cache_ttl_mins", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
