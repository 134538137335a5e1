package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/doeshing/wxq/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return validateLogging(cfg.Logging)
}

func validateEndpoint(endpoint domain.EndpointSettings) error {
	if !endpoint.IsRelative() {
		base, err := url.Parse(strings.TrimSpace(endpoint.BaseURL))
		if err != nil {
			return fmt.Errorf("endpoint.base_url invalid: %w", err)
		}
		if base.Scheme != "" && base.Scheme != "http" && base.Scheme != "https" {
			return fmt.Errorf("endpoint.base_url must use http or https, got %s", base.Scheme)
		}
		if base.Scheme != "" && base.Host == "" {
			return fmt.Errorf("endpoint.base_url %q has no host", endpoint.BaseURL)
		}
		if base.RawQuery != "" {
			return fmt.Errorf("endpoint.base_url must not carry a query string")
		}
	}

	if strings.Contains(endpoint.Path, "?") {
		return fmt.Errorf("endpoint.path must not carry a query string")
	}

	origin, err := url.Parse(strings.TrimSpace(endpoint.Origin))
	if err != nil {
		return fmt.Errorf("endpoint.origin invalid: %w", err)
	}
	if endpoint.Origin != "" && (!origin.IsAbs() || origin.Host == "") {
		return fmt.Errorf("endpoint.origin must be an absolute URL, got %q", endpoint.Origin)
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch domain.HistoryBackend(strings.ToLower(string(history.Backend))) {
	case "", domain.HistoryBackendSQLite, domain.HistoryBackendFile:
	case domain.HistoryBackendRedis:
		if history.Enabled && history.RedisURL == "" {
			return fmt.Errorf("history.redis_url must be set when history.backend is redis")
		}
	default:
		return fmt.Errorf("history.backend must be sqlite|file|redis, got %s", history.Backend)
	}
	if history.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must be >= 0")
	}
	if history.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must be >= 0")
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	switch strings.ToLower(logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", logging.Level)
	}
	switch strings.ToLower(logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console|json, got %s", logging.Format)
	}
	return nil
}
