package backend

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from WXQ_BACKEND_* variables.
type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8000"`
	Catalog         string        `envconfig:"CATALOG"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"console"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig reads envFile if present, then the environment.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	var cfg Config
	if err := envconfig.Process("WXQ_BACKEND", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
