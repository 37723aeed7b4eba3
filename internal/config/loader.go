package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".stopverifage"

// XDGConfigFile is the file name looked up in the XDG config directory.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the .stopverifage configuration file.
// Zero values leave the corresponding setting untouched.
type File struct {
	Server ServerFile `yaml:"server,omitempty"`
	Data   DataFile   `yaml:"data,omitempty"`
	Build  BuildFile  `yaml:"build,omitempty"`
	Check  CheckFile  `yaml:"check,omitempty"`
	Log    LogFile    `yaml:"log,omitempty"`

	// Locale is the BCP 47 tag used to collate names.
	Locale string `yaml:"locale,omitempty"`

	// RecentCount is the number of entries on the landing page.
	RecentCount *int `yaml:"recentCount,omitempty"`
}

// ServerFile configures the preview server.
type ServerFile struct {
	Addr             string        `yaml:"addr,omitempty"`
	Watch            *bool         `yaml:"watch,omitempty"`
	SuggestRateLimit *int          `yaml:"suggestRateLimit,omitempty"`
	ShutdownTimeout  time.Duration `yaml:"shutdownTimeout,omitempty"`
}

// DataFile configures where the dataset comes from.
type DataFile struct {
	// File is a local dataset path. Relative paths are resolved against
	// the directory of the configuration file.
	File string `yaml:"file,omitempty"`

	// URL is the base URL data/sites.json is fetched from.
	URL string `yaml:"url,omitempty"`
}

// BuildFile configures the static build.
type BuildFile struct {
	OutputDir   string `yaml:"outputDir,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// CheckFile configures the link checker and the dataset fetch.
type CheckFile struct {
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	UserAgent string        `yaml:"userAgent,omitempty"`
}

// LogFile configures logging.
type LogFile struct {
	Format  string `yaml:"format,omitempty"`
	Verbose *bool  `yaml:"verbose,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cf.Data.File != "" && !filepath.IsAbs(cf.Data.File) {
		cf.Data.File = filepath.Join(filepath.Dir(path), cf.Data.File)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .stopverifage in the current directory
// 3. Look for .stopverifage in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Apply copies every value set in the file onto c.
func (cf *File) Apply(c *Config) {
	if cf == nil {
		return
	}

	if cf.Server.Addr != "" {
		c.Addr = cf.Server.Addr
	}
	if cf.Server.Watch != nil {
		c.Watch = *cf.Server.Watch
	}
	if cf.Server.SuggestRateLimit != nil {
		c.SuggestRateLimit = *cf.Server.SuggestRateLimit
	}
	if cf.Server.ShutdownTimeout != 0 {
		c.ShutdownTimeout = cf.Server.ShutdownTimeout
	}

	if cf.Data.File != "" {
		c.DataFile = cf.Data.File
	}
	if cf.Data.URL != "" {
		c.DataURL = cf.Data.URL
	}

	if cf.Build.OutputDir != "" {
		c.OutputDir = cf.Build.OutputDir
	}
	if cf.Build.Concurrency != 0 {
		c.Concurrency = cf.Build.Concurrency
	}

	if cf.Check.Timeout != 0 {
		c.Timeout = cf.Check.Timeout
	}
	if cf.Check.UserAgent != "" {
		c.UserAgent = cf.Check.UserAgent
	}

	if cf.Log.Format != "" {
		c.LogFormat = cf.Log.Format
	}
	if cf.Log.Verbose != nil {
		c.Verbose = *cf.Log.Verbose
	}

	if cf.Locale != "" {
		c.Locale = cf.Locale
	}
	if cf.RecentCount != nil {
		c.RecentCount = *cf.RecentCount
	}
}
