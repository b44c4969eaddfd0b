// Package config loads securecheck settings from a config file, SECURECHECK_*
// environment variables and built-in defaults, in that order of precedence
// (environment first).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SECURECHECK_SERVER_ADDR.
const EnvPrefix = "SECURECHECK"

type Cfg struct {
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
	Output OutputConfig `mapstructure:"output"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	MaxSessions    uint64        `mapstructure:"max_sessions"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"` // 0 disables limiting
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type LoggerConfig struct {
	Level            string `mapstructure:"level"`
	Format           string `mapstructure:"format"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

var defaults = map[string]interface{}{
	"server.addr":              ":8080",
	"server.session_ttl":       "30m",
	"server.max_sessions":      1000,
	"server.max_upload_bytes":  64 << 20,
	"server.rate_limit_rps":    20.0,
	"server.rate_limit_burst":  40,
	"logger.level":             "INFO",
	"logger.format":            "TEXT",
	"logger.disable_timestamp": false,
	"output.format":            "table",
}

// Default returns the built-in configuration.
func Default() Cfg {
	cfg, err := decode(newViper())
	if err != nil {
		// defaults are static; a decode failure is a programming error
		panic(err)
	}
	return cfg
}

// Load reads the configuration. An empty path searches for securecheck.json
// or securecheck.yaml in ./configs and the working directory; finding none
// is not an error. A non-empty path must exist.
func Load(path string) (Cfg, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("securecheck")
		v.AddConfigPath("./configs/")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Cfg{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Cfg{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Cfg{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Cfg) Validate() error {
	var errs []error
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl must be positive, got %s", c.Server.SessionTTL))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit_rps must not be negative, got %g", c.Server.RateLimitRPS))
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("server.rate_limit_burst must be at least 1, got %d", c.Server.RateLimitBurst))
	}
	return errors.Join(errs...)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Cfg, error) {
	var cfg Cfg
	if err := v.Unmarshal(&cfg); err != nil {
		return Cfg{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return cfg, nil
}
