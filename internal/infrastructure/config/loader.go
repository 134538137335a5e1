package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/wxq/assets"
	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/pkg/filesystem"
	"github.com/doeshing/wxq/internal/ports"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "WXQ"

// FileLoader loads YAML configuration from ~/.wxq/config.yaml (overridable via
// WXQ_CONFIG) and overlays WXQ_* environment variables, optionally read from a
// .env file first.
type FileLoader struct {
	overridePath string
	envFile      string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, envFile: ".env"}
}

// WithEnvFile sets the dotenv file read before the environment overlay.
// An empty path disables dotenv loading.
func (l *FileLoader) WithEnvFile(path string) *FileLoader {
	l.envFile = path
	return l
}

// envOverrides lists the variables that may override the YAML file. Pointer
// fields stay nil when the variable is unset, so an explicitly empty
// WXQ_API_BASE_URL switches to relative targets.
type envOverrides struct {
	APIBaseURL     *string `envconfig:"API_BASE_URL"`
	APIPath        *string `envconfig:"API_PATH"`
	APIOrigin      *string `envconfig:"API_ORIGIN"`
	APITimeout     *int    `envconfig:"API_TIMEOUT"`
	HistoryEnabled *bool   `envconfig:"HISTORY_ENABLED"`
	HistoryBackend *string `envconfig:"HISTORY_BACKEND"`
	HistoryPath    *string `envconfig:"HISTORY_PATH"`
	RedisURL       *string `envconfig:"REDIS_URL"`
	LogLevel       *string `envconfig:"LOG_LEVEL"`
	LogFormat      *string `envconfig:"LOG_FORMAT"`
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return domain.Config{}, err
	}
	cfg, err := l.LoadFile()
	if err != nil {
		return domain.Config{}, err
	}
	return applyEnv(cfg)
}

// LoadFile reads the YAML file alone, writing defaults on first run. The
// environment overlay is not applied, so the result is safe to Save back.
func (l *FileLoader) LoadFile() (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	var cfg domain.Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = defaultConfig()
		if err := writeDefault(path, cfg); err != nil {
			return domain.Config{}, err
		}
	case err != nil:
		return domain.Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", l.envFile, err)
	}
	return nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvPrefix + "_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".wxq", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return err
	}
	return os.WriteFile(l.resolvePath(), raw, domain.SecureFilePermissions)
}

// Reset overwrites the config with defaults and returns the default snapshot.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg := defaultConfig()
	if err := l.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func applyEnv(cfg domain.Config) (domain.Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return domain.Config{}, fmt.Errorf("read %s_* environment: %w", EnvPrefix, err)
	}

	if env.APIBaseURL != nil {
		cfg.Endpoint.BaseURL = strings.TrimSpace(*env.APIBaseURL)
	}
	if env.APIPath != nil {
		cfg.Endpoint.Path = *env.APIPath
	}
	if env.APIOrigin != nil {
		cfg.Endpoint.Origin = *env.APIOrigin
	}
	if env.APITimeout != nil {
		cfg.Endpoint.TimeoutSeconds = *env.APITimeout
	}
	if env.HistoryEnabled != nil {
		cfg.History.Enabled = *env.HistoryEnabled
	}
	if env.HistoryBackend != nil {
		cfg.History.Backend = domain.HistoryBackend(strings.ToLower(*env.HistoryBackend))
	}
	if env.HistoryPath != nil {
		cfg.History.Path = expandPath(*env.HistoryPath)
	}
	if env.RedisURL != nil {
		cfg.History.RedisURL = *env.RedisURL
	}
	if env.LogLevel != nil {
		cfg.Logging.Level = *env.LogLevel
	}
	if env.LogFormat != nil {
		cfg.Logging.Format = *env.LogFormat
	}
	return cfg, nil
}

func defaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{
			ConfigFormatVersion: "1",
			Endpoint: domain.EndpointSettings{
				BaseURL:        domain.DefaultBaseURL,
				Path:           domain.DefaultLookupPath,
				Origin:         domain.DefaultOrigin,
				HealthPath:     domain.DefaultHealthPath,
				TimeoutSeconds: int(domain.DefaultHTTPTimeout / time.Second),
			},
			History: domain.HistorySettings{
				Enabled:       true,
				Backend:       domain.HistoryBackendSQLite,
				RetentionDays: domain.DefaultHistoryRetainDays,
				MaxEntries:    domain.DefaultHistoryMaxEntries,
			},
		}
	}
	return cfg
}

// hydrateDefaults fills fields a hand-written file may omit. A zero timeout
// falls back to the default; a negative one disables the transport timeout.
func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Endpoint.Path == "" {
		cfg.Endpoint.Path = domain.DefaultLookupPath
	}
	if cfg.Endpoint.Origin == "" {
		cfg.Endpoint.Origin = domain.DefaultOrigin
	}
	if cfg.Endpoint.HealthPath == "" {
		cfg.Endpoint.HealthPath = domain.DefaultHealthPath
	}
	if cfg.Endpoint.TimeoutSeconds == 0 {
		cfg.Endpoint.TimeoutSeconds = int(domain.DefaultHTTPTimeout / time.Second)
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendSQLite
	}
	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = domain.DefaultHistoryMaxEntries
	}
	if cfg.History.RetentionDays < 0 {
		cfg.History.RetentionDays = 0
	}
	if cfg.History.Path != "" {
		cfg.History.Path = expandPath(cfg.History.Path)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

// DefaultConfig exposes the bootstrap configuration template.
func DefaultConfig() domain.Config {
	return hydrateDefaults(defaultConfig())
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
