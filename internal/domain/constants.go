package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultTimeoutMS is the default execution timeout in milliseconds
	DefaultTimeoutMS = 30000
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
)

// Generation defaults
const (
	// DefaultTemperature is the default sampling temperature
	DefaultTemperature = 0.3
	// DefaultMaxTokens is the default maximum number of output tokens
	DefaultMaxTokens = 500
	// DefaultOllamaHost is the local daemon base URL
	DefaultOllamaHost = "http://localhost:11434"
)

// History constants
const (
	// DefaultHistoryLimit is the default number of retained history entries
	DefaultHistoryLimit = 100
	// DefaultHistoryDisplayLimit is the default number of entries shown by `history`
	DefaultHistoryDisplayLimit = 10
)

// Execution constants
const (
	// MaxOutputBytes caps captured stdout and stderr, each.
	MaxOutputBytes = 10 * 1024 * 1024
	// MaxSetupAttempts bounds the setup wizard's reconfigure loop.
	MaxSetupAttempts = 3
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
