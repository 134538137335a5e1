package query

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/pkg/logger"
	"github.com/doeshing/wxq/internal/ports"
)

// Controller drives the lookup lifecycle of one form session: it validates a
// city name, performs the lookup and folds the outcome into QueryState.
//
// Overlapping Submit calls are allowed. Every mutation is applied under a lock
// so snapshots are never partially written; the last call to finish decides
// Result and ErrorMessage.
type Controller struct {
	client   ports.WeatherClient
	history  ports.HistoryRepository
	logger   ports.Logger
	observer func(domain.QueryState)
	now      func() time.Time

	mu    sync.Mutex
	state domain.QueryState
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(log ports.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithHistory records every submission that reached the network in repo.
func WithHistory(repo ports.HistoryRepository) Option {
	return func(c *Controller) {
		c.history = repo
	}
}

// WithObserver registers fn to receive a snapshot after each state change.
// fn runs on the goroutine that made the change, outside the lock.
func WithObserver(fn func(domain.QueryState)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// WithClock overrides time.Now for history timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a controller with an empty state.
func New(client ports.WeatherClient, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() domain.QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// SetInput records a user edit of the input field.
func (c *Controller) SetInput(text string) {
	c.update(func(s *domain.QueryState) {
		s.InputText = text
	})
}

// SubmitInput submits the current input text.
func (c *Controller) SubmitInput(ctx context.Context) {
	c.Submit(ctx, c.State().InputText)
}

// Submit looks up rawCityName and resolves the outcome into state. It never
// returns an error; failures surface as ErrorMessage.
func (c *Controller) Submit(ctx context.Context, rawCityName string) {
	if ctx == nil {
		ctx = context.Background()
	}

	city := strings.TrimSpace(rawCityName)
	if city == "" {
		outcome := domain.Outcome{Err: domain.NewValidationError()}
		c.update(outcome.Apply)
		return
	}

	c.update(func(s *domain.QueryState) {
		s.Pending = true
		s.ErrorMessage = ""
	})

	started := c.now()
	var outcome domain.Outcome
	defer func() {
		c.update(func(s *domain.QueryState) {
			outcome.Apply(s)
			s.Pending = false
		})
		c.record(city, outcome, c.now().Sub(started))
	}()

	outcome = c.lookup(ctx, city)
}

func (c *Controller) lookup(ctx context.Context, city string) (outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("lookup panicked", nil, map[string]interface{}{"city": city, "panic": r})
			outcome = domain.Outcome{Err: domain.NewTransportError(panicError{value: r})}
		}
	}()

	if c.client == nil {
		return domain.Outcome{Err: domain.NewTransportError(errNoClient)}
	}

	result, err := c.client.Lookup(ctx, city)
	if err != nil {
		c.logger.Info("lookup failed", map[string]interface{}{
			"city":  city,
			"kind":  string(domain.KindOf(err)),
			"error": err.Error(),
		})
		return domain.Outcome{Err: err}
	}

	c.logger.Debug("lookup succeeded", map[string]interface{}{
		"city":        result.City,
		"temperature": result.Temperature,
		"condition":   result.Condition,
	})
	return domain.Outcome{Result: result}
}

func (c *Controller) update(mutate func(*domain.QueryState)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state.Clone()
	c.mu.Unlock()

	if c.observer != nil {
		c.observer(snapshot)
	}
}

func (c *Controller) record(city string, outcome domain.Outcome, elapsed time.Duration) {
	if c.history == nil {
		return
	}

	rec := domain.HistoryRecord{
		ID:         uuid.NewString(),
		Timestamp:  c.now().UTC(),
		City:       city,
		Outcome:    domain.OutcomeFromKind(domain.KindOf(outcome.Err)),
		DurationMS: elapsed.Milliseconds(),
	}
	if outcome.Err != nil {
		rec.Message = domain.MessageFor(outcome.Err)
		var lookupErr *domain.LookupError
		if errors.As(outcome.Err, &lookupErr) {
			rec.StatusCode = lookupErr.StatusCode
		}
	} else {
		rec.City = outcome.Result.City
		rec.Temperature = domain.Float(outcome.Result.Temperature)
		rec.Condition = outcome.Result.Condition
	}

	if err := c.history.Save(rec); err != nil {
		c.logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}
