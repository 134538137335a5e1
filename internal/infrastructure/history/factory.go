package history

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/pkg/filesystem"
	"github.com/doeshing/wxq/internal/ports"
)

// ErrDisabled is returned by New when history is switched off in config.
var ErrDisabled = errors.New("history is disabled")

// DefaultDir is where file based stores live unless configured otherwise.
func DefaultDir() string {
	return filepath.Join(filesystem.UserHomeDir(), ".wxq", "history")
}

// New builds the configured repository. When sqlite can not be opened the
// jsonl file store takes over and a warning is logged.
func New(settings domain.HistorySettings, log ports.Logger) (ports.HistoryRepository, error) {
	if !settings.Enabled {
		return nil, ErrDisabled
	}
	switch settings.BackendOrDefault() {
	case domain.HistoryBackendRedis:
		client, err := DialRedis(settings.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, settings.RedisKeyOrDefault(), settings.MaxEntries, settings.RetentionDays), nil
	case domain.HistoryBackendFile:
		return NewFileStore(storePath(settings.Path, ".jsonl"), settings.RetentionDays), nil
	default:
		path := storePath(settings.Path, ".db")
		store, err := NewSQLiteStore(path, settings.RetentionDays)
		if err == nil {
			return store, nil
		}
		fallback := strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl"
		if log != nil {
			log.Warn("sqlite history unavailable, using jsonl file", map[string]interface{}{
				"path":     path,
				"fallback": fallback,
				"error":    err.Error(),
			})
		}
		return NewFileStore(fallback, settings.RetentionDays), nil
	}
}

func storePath(configured, ext string) string {
	if strings.TrimSpace(configured) != "" {
		return expandHome(configured)
	}
	return filepath.Join(DefaultDir(), "history"+ext)
}

func expandHome(path string) string {
	if path == "~" {
		return filesystem.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}
