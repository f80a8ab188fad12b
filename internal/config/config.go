// Package config loads the proxy settings from an optional TOML file,
// IMAGE_PROXY_* environment variables and built-in defaults, in decreasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-proxy/internal/imaging"
)

// EnvPrefix is prepended to every environment override, with dots in the
// key replaced by underscores: IMAGE_PROXY_SERVER_ADDR sets server.addr.
const EnvPrefix = "IMAGE_PROXY"

// DefaultConfigFile is read from the working directory when no path is given.
const DefaultConfigFile = "config.toml"

// Config holds every setting of the proxy.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Output    OutputConfig    `mapstructure:"output"`
	Compute   ComputeConfig   `mapstructure:"compute"`
	Watermark WatermarkConfig `mapstructure:"watermark"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	CacheControl      string        `mapstructure:"cache_control"`
}

type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type FetchConfig struct {
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxBytes             int64         `mapstructure:"max_bytes"`
	BlockPrivateNetworks bool          `mapstructure:"block_private_networks"`
}

type OutputConfig struct {
	Format      string `mapstructure:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
	// MaxPixels caps the width x height a Resize may produce.
	MaxPixels int64 `mapstructure:"max_pixels"`
}

type ComputeConfig struct {
	// Workers is the size of the transform pool; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers"`
}

type WatermarkConfig struct {
	// Path of a replacement logo; empty keeps the embedded one.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

var defaults = map[string]any{
	"server.addr":                  "127.0.0.1:3000",
	"server.read_header_timeout":   "5s",
	"server.shutdown_timeout":      "10s",
	"server.cache_control":         "public, max-age=86400",
	"cache.capacity":               1024,
	"fetch.timeout":                "10s",
	"fetch.max_bytes":              32 << 20,
	"fetch.block_private_networks": false,
	"output.format":                "jpeg",
	"output.jpeg_quality":          85,
	"output.max_pixels":            imaging.DefaultMaxPixels,
	"compute.workers":              0,
	"watermark.path":               "",
	"log.level":                    "info",
	"log.pretty":                   false,
}

// Load reads the configuration. An explicit path must exist; with an empty
// path, DefaultConfigFile is used if present and skipped otherwise.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".toml"))
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Cache.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("cache.capacity must be positive, got %d", c.Cache.Capacity))
	}
	if c.Fetch.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("fetch.max_bytes must be positive, got %d", c.Fetch.MaxBytes))
	}
	if _, err := c.OutputFormat(); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if q := c.Output.JPEGQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("output.jpeg_quality must be between 1 and 100, got %d", q))
	}
	if c.Output.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("output.max_pixels must be positive, got %d", c.Output.MaxPixels))
	}
	if c.Compute.Workers < 0 {
		errs = append(errs, fmt.Errorf("compute.workers must not be negative, got %d", c.Compute.Workers))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// OutputFormat resolves output.format.
func (c *Config) OutputFormat() (imaging.Format, error) {
	return imaging.ParseFormat(c.Output.Format)
}

// LogLevel resolves log.level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return zerolog.NoLevel, errors.New("level must not be empty")
	}
	return zerolog.ParseLevel(strings.ToLower(c.Log.Level))
}
