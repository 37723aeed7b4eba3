package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv, except PORT.
const EnvPrefix = "STOPVERIFAGE_"

// envOverlay mirrors the settings that can come from the environment.
// Fields are pre-filled from the current Config so unset variables keep
// the value of the previous layer.
type envOverlay struct {
	Addr             string        `env:"ADDR"`
	DataFile         string        `env:"DATA_FILE"`
	DataURL          string        `env:"DATA_URL"`
	Locale           string        `env:"LOCALE"`
	RecentCount      int           `env:"RECENT_COUNT"`
	OutputDir        string        `env:"OUTPUT_DIR"`
	Concurrency      int           `env:"CONCURRENCY"`
	Timeout          time.Duration `env:"TIMEOUT"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT"`
	SuggestRateLimit int           `env:"SUGGEST_RATE_LIMIT"`
	Watch            bool          `env:"WATCH"`
	UserAgent        string        `env:"USER_AGENT"`
	Verbose          bool          `env:"VERBOSE"`
	LogFormat        string        `env:"LOG_FORMAT"`
}

// portOverlay reads the unprefixed PORT variable set by hosting platforms.
type portOverlay struct {
	Port string `env:"PORT"`
}

// ApplyEnv overrides c with STOPVERIFAGE_* variables and PORT.
// A nil environ reads the process environment.
//
// PORT, when set, binds every interface on that port, unless
// STOPVERIFAGE_ADDR is also set.
func ApplyEnv(c *Config, environ map[string]string) error {
	overlay := envOverlay{
		Addr:             c.Addr,
		DataFile:         c.DataFile,
		DataURL:          c.DataURL,
		Locale:           c.Locale,
		RecentCount:      c.RecentCount,
		OutputDir:        c.OutputDir,
		Concurrency:      c.Concurrency,
		Timeout:          c.Timeout,
		ShutdownTimeout:  c.ShutdownTimeout,
		SuggestRateLimit: c.SuggestRateLimit,
		Watch:            c.Watch,
		UserAgent:        c.UserAgent,
		Verbose:          c.Verbose,
		LogFormat:        c.LogFormat,
	}
	if err := env.ParseWithOptions(&overlay, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	var port portOverlay
	if err := env.ParseWithOptions(&port, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if port.Port != "" && !isSet(environ, EnvPrefix+"ADDR") {
		overlay.Addr = ":" + port.Port
	}

	c.Addr = overlay.Addr
	c.DataFile = overlay.DataFile
	c.DataURL = overlay.DataURL
	c.Locale = overlay.Locale
	c.RecentCount = overlay.RecentCount
	c.OutputDir = overlay.OutputDir
	c.Concurrency = overlay.Concurrency
	c.Timeout = overlay.Timeout
	c.ShutdownTimeout = overlay.ShutdownTimeout
	c.SuggestRateLimit = overlay.SuggestRateLimit
	c.Watch = overlay.Watch
	c.UserAgent = overlay.UserAgent
	c.Verbose = overlay.Verbose
	c.LogFormat = overlay.LogFormat
	return nil
}

func isSet(environ map[string]string, key string) bool {
	if environ == nil {
		_, ok := os.LookupEnv(key)
		return ok
	}
	_, ok := environ[key]
	return ok
}
