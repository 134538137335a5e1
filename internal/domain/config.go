package domain

// Config mirrors ~/.wxq/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Endpoint            EndpointSettings `yaml:"endpoint"`
	History             HistorySettings  `yaml:"history"`
	Logging             LoggingSettings  `yaml:"logging"`
}

// EndpointSettings locates the weather lookup endpoint. BaseURL may be an
// absolute URL or empty; an empty base yields a relative request target that
// the transport resolves against Origin.
type EndpointSettings struct {
	BaseURL        string `yaml:"base_url"`
	Path           string `yaml:"path"`
	Origin         string `yaml:"origin"`
	HealthPath     string `yaml:"health_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// HistorySettings configures the lookup audit log.
type HistorySettings struct {
	Enabled       bool           `yaml:"enabled"`
	Backend       HistoryBackend `yaml:"backend"`
	Path          string         `yaml:"path"`
	RedisURL      string         `yaml:"redis_url"`
	RedisKey      string         `yaml:"redis_key"`
	MaxEntries    int            `yaml:"max_entries"`
	RetentionDays int            `yaml:"retention_days"`
}

// LoggingSettings controls the zerolog backend.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HistoryBackend names a history storage implementation.
type HistoryBackend string

const (
	HistoryBackendSQLite HistoryBackend = "sqlite"
	HistoryBackendFile   HistoryBackend = "file"
	HistoryBackendRedis  HistoryBackend = "redis"
)
