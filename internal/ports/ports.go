// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The lookup controller depends only on these
// abstractions, so the HTTP transport, the history backend and the logger can be
// swapped without touching the request/response lifecycle.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., WeatherClient, ConfigProvider)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/wxq/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.wxq/config.yaml and the environment.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// WeatherClient performs one lookup against the weather backend.
// Every failure is reported as a *domain.LookupError.
type WeatherClient interface {
	Lookup(ctx context.Context, city string) (domain.WeatherResult, error)
}

// HealthChecker probes the backend without performing a lookup.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HistoryRepository persists completed lookups.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	PruneOlderThan(days int) error
	ExportJSON(dest string) error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
