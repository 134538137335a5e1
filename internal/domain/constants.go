package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// HistoryFilePermissions is the permission for JSONL history files (rw-r--r--)
	HistoryFilePermissions = 0o644
)

// Endpoint defaults
const (
	DefaultBaseURL     = "http://localhost:8000"
	DefaultOrigin      = "http://localhost:8000"
	DefaultLookupPath  = "/api/weather"
	DefaultHealthPath  = "/healthz"
	CityQueryParam     = "city"
	DefaultHTTPTimeout = 15 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 30
	// DefaultHistoryMaxEntries caps the redis history list
	DefaultHistoryMaxEntries = 1000
	// MaxHistoryAnalysisRecords is the maximum number of records to analyze
	MaxHistoryAnalysisRecords = 1000
	// DefaultRedisHistoryKey is the redis list holding history records
	DefaultRedisHistoryKey = "wxq:history"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
