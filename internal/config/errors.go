package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyAddr is returned when the listen address is empty.
	ErrEmptyAddr = errors.New("invalid listen address: must not be empty")

	// ErrInvalidRecentCount is returned when the number of recent entries is negative.
	ErrInvalidRecentCount = errors.New("invalid recent count: must be non-negative")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRateLimit is returned when the suggestion rate limit is negative.
	// Zero disables rate limiting.
	ErrInvalidRateLimit = errors.New("invalid suggestion rate limit: must be non-negative")

	// ErrInvalidLocale is returned when the collation locale is not a BCP 47 tag.
	ErrInvalidLocale = errors.New("invalid locale: must be a BCP 47 language tag")

	// ErrInvalidDataURL is returned when the dataset base URL is not an absolute http(s) URL.
	ErrInvalidDataURL = errors.New("invalid data URL: must be an absolute http or https URL")

	// ErrInvalidLogFormat is returned for log formats other than text and json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
