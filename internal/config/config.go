package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"

	"github.com/nao1215/stopverifage/internal/log"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "stopverifage"

	// DefaultAddr is the listen address of the preview server.
	// It binds to loopback; set PORT or --addr to expose it.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultLocale drives name collation in lists.
	DefaultLocale = "fr"

	// DefaultRecentCount is the number of entries on the landing page.
	DefaultRecentCount = 4

	// DefaultOutputDir is where build writes the static site.
	DefaultOutputDir = "public"

	// DefaultConcurrency bounds parallel page writes and link checks.
	DefaultConcurrency = 8

	// DefaultTimeout applies to the dataset fetch and to each link check.
	DefaultTimeout = 10 * time.Second

	// DefaultShutdownTimeout is how long the server waits for in-flight requests.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultSuggestRateLimit is the number of suggestion submissions
	// accepted per client IP and minute.
	DefaultSuggestRateLimit = 5

	// DefaultUserAgent identifies stopverifage in outgoing requests.
	DefaultUserAgent = "StopVerifAge/1.0 (+https://github.com/nao1215/stopverifage)"
)

// Config holds every option of the stopverifage commands.
// It is populated from the configuration file, the environment and CLI
// flags, then passed down explicitly.
type Config struct {
	// Addr is the listen address of the preview server in "host:port" form.
	Addr string

	// DataFile is a local dataset used instead of the compiled-in one.
	DataFile string

	// DataURL is the base URL the dataset is fetched from when the local
	// document is missing or unusable. data/sites.json is resolved against it.
	DataURL string

	// Locale is the BCP 47 tag used to collate names.
	Locale string

	// RecentCount is the number of recent entries on the landing page.
	RecentCount int

	// OutputDir is the directory the static build is written to.
	OutputDir string

	// Concurrency is the number of workers used by build and check.
	Concurrency int

	// Timeout bounds the dataset fetch and each link check.
	Timeout time.Duration

	// ShutdownTimeout bounds graceful shutdown of the server.
	ShutdownTimeout time.Duration

	// SuggestRateLimit is the number of suggestions accepted per client IP
	// and minute. Zero disables the limit.
	SuggestRateLimit int

	// Watch reloads the dataset when DataFile changes on disk.
	Watch bool

	// UserAgent is sent with the dataset fetch and link checks.
	UserAgent string

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the configuration file given with --config.
	ConfigFilePath string

	// JSONReport selects JSON output for list, show and check.
	JSONReport bool

	// MarkdownReport selects Markdown output for list, show and check.
	MarkdownReport bool

	// ReportFile writes command output to a file instead of stdout.
	ReportFile string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Addr:             DefaultAddr,
		Locale:           DefaultLocale,
		RecentCount:      DefaultRecentCount,
		OutputDir:        DefaultOutputDir,
		Concurrency:      DefaultConcurrency,
		Timeout:          DefaultTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
		SuggestRateLimit: DefaultSuggestRateLimit,
		UserAgent:        DefaultUserAgent,
		LogFormat:        log.FormatText,
	}
}

// XDGConfigDir returns the XDG config directory for stopverifage.
// On Linux: ~/.config/stopverifage
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for stopverifage.
// On Linux: ~/.local/share/stopverifage
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrEmptyAddr
	}
	if c.RecentCount < 0 {
		return ErrInvalidRecentCount
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 || c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SuggestRateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return ErrInvalidLocale
	}
	if c.DataURL != "" {
		u, err := url.Parse(c.DataURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidDataURL
		}
	}
	if _, err := log.ParseFormat(c.LogFormat); err != nil {
		return ErrInvalidLogFormat
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
