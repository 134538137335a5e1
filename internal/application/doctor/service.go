package doctor

import (
	"context"
	"fmt"
	"time"

	configvalidator "github.com/doeshing/wxq/internal/application/config"
	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/ports"
)

const pingTimeout = 5 * time.Second

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	HealthChecker  ports.HealthChecker
	HistoryStore   ports.HistoryRepository
	// HistoryError is the reason HistoryStore is nil, if any.
	HistoryError error
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s", cfg.ConfigFormatVersion)))

	if err := configvalidator.Validate(cfg); err != nil {
		checks = append(checks, fail("Config values", err.Error()))
	} else {
		checks = append(checks, ok("Config values", "valid"))
	}

	checks = append(checks, s.endpointCheck(ctx, cfg.Endpoint))
	checks = append(checks, s.historyCheck(cfg.History))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) endpointCheck(ctx context.Context, endpoint domain.EndpointSettings) domain.HealthCheck {
	target := endpoint.BaseURL
	if endpoint.IsRelative() {
		target = endpoint.Origin + " (relative)"
	}
	if s.HealthChecker == nil {
		return warn("Weather API", "client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.HealthChecker.Ping(ctx); err != nil {
		return fail("Weather API", fmt.Sprintf("%s unreachable: %v", target, err))
	}
	return ok("Weather API", fmt.Sprintf("%s reachable", target))
}

func (s *Service) historyCheck(settings domain.HistorySettings) domain.HealthCheck {
	if !settings.Enabled {
		return warn("History", "disabled")
	}
	if s.HistoryStore == nil {
		if s.HistoryError != nil {
			return fail("History", s.HistoryError.Error())
		}
		return warn("History", "store not initialized")
	}
	if _, err := s.HistoryStore.Records(1, ""); err != nil {
		return fail("History", fmt.Sprintf("%s unreadable: %v", s.HistoryStore.Path(), err))
	}
	return ok("History", s.HistoryStore.Path())
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
