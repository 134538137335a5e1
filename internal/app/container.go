package app

import (
	"context"
	"fmt"
	"io"

	configapp "github.com/doeshing/wxq/internal/application/config"
	"github.com/doeshing/wxq/internal/application/doctor"
	"github.com/doeshing/wxq/internal/application/query"
	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/infrastructure/config"
	"github.com/doeshing/wxq/internal/infrastructure/history"
	"github.com/doeshing/wxq/internal/infrastructure/weatherapi"
	"github.com/doeshing/wxq/internal/pkg/logger"
	"github.com/doeshing/wxq/internal/ports"
)

// Options tunes container construction from CLI flags.
type Options struct {
	ConfigPath string
	Verbose    bool
	// Override runs after config is loaded and before validation.
	Override func(*domain.Config)
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.ZeroLogger
	WeatherClient  *weatherapi.Client
	DoctorService  *doctor.Service
	HistoryStore   ports.HistoryRepository
	// HistoryError explains a nil HistoryStore.
	HistoryError error
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Override != nil {
		opts.Override(&cfg)
	}
	if err := configapp.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", cfgLoader.Path(), err)
	}

	log := logger.FromSettings(cfg.Logging, opts.Verbose)

	client, err := weatherapi.NewClient(cfg.Endpoint, weatherapi.WithLogger(log))
	if err != nil {
		return nil, err
	}

	historyStore, historyErr := history.New(cfg.History, log)
	if historyErr != nil && historyErr != history.ErrDisabled {
		log.Warn("history unavailable", map[string]interface{}{"error": historyErr.Error()})
	}

	doctorService := &doctor.Service{
		ConfigProvider: overriddenProvider{loader: cfgLoader, override: opts.Override},
		HealthChecker:  client,
		HistoryStore:   historyStore,
		HistoryError:   historyErr,
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		WeatherClient:  client,
		DoctorService:  doctorService,
		HistoryStore:   historyStore,
		HistoryError:   historyErr,
	}, nil
}

// NewController returns a lookup controller bound to the container's client
// and history store.
func (c *Container) NewController(opts ...query.Option) *query.Controller {
	base := []query.Option{query.WithLogger(c.Logger)}
	if c.HistoryStore != nil {
		base = append(base, query.WithHistory(c.HistoryStore))
	}
	return query.New(c.WeatherClient, append(base, opts...)...)
}

// Close releases adapters holding connections.
func (c *Container) Close() error {
	if closer, ok := c.HistoryStore.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// overriddenProvider reapplies CLI overrides so doctor sees the effective config.
type overriddenProvider struct {
	loader   *config.FileLoader
	override func(*domain.Config)
}

func (p overriddenProvider) Load(ctx context.Context) (domain.Config, error) {
	cfg, err := p.loader.Load(ctx)
	if err != nil {
		return cfg, err
	}
	if p.override != nil {
		p.override(&cfg)
	}
	return cfg, nil
}
