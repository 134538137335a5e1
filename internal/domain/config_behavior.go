package domain

import (
	"strings"
	"time"
)

// Timeout returns the transport timeout; zero disables it.
func (e EndpointSettings) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// LookupPath returns the configured lookup path with a leading slash.
func (e EndpointSettings) LookupPath() string {
	return ensureLeadingSlash(e.Path, DefaultLookupPath)
}

// HealthCheckPath returns the configured health path with a leading slash.
func (e EndpointSettings) HealthCheckPath() string {
	return ensureLeadingSlash(e.HealthPath, DefaultHealthPath)
}

// IsRelative reports whether lookups target the same origin.
func (e EndpointSettings) IsRelative() bool {
	return strings.TrimSpace(e.BaseURL) == ""
}

// BackendOrDefault returns the configured history backend, defaulting to sqlite.
func (h HistorySettings) BackendOrDefault() HistoryBackend {
	switch HistoryBackend(strings.ToLower(string(h.Backend))) {
	case HistoryBackendFile:
		return HistoryBackendFile
	case HistoryBackendRedis:
		return HistoryBackendRedis
	default:
		return HistoryBackendSQLite
	}
}

// RedisKeyOrDefault returns the redis list key used for history.
func (h HistorySettings) RedisKeyOrDefault() string {
	if h.RedisKey == "" {
		return DefaultRedisHistoryKey
	}
	return h.RedisKey
}

// IsDebug reports whether debug logging is requested.
func (l LoggingSettings) IsDebug() bool {
	return strings.EqualFold(l.Level, "debug")
}

// IsJSON reports whether structured JSON log output is requested.
func (l LoggingSettings) IsJSON() bool {
	return strings.EqualFold(l.Format, "json")
}

func ensureLeadingSlash(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
