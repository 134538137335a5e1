package app

import (
	"context"
	"sync"

	"github.com/doeshing/wxq/internal/infrastructure/config"
)

// Lazy defers container construction until a command needs it, so flags
// parsed by cobra can feed Options.
type Lazy struct {
	ctx     context.Context
	options func() Options

	once      sync.Once
	container *Container
	err       error
}

// NewLazy returns a Lazy that resolves options at first use.
func NewLazy(ctx context.Context, options func() Options) *Lazy {
	return &Lazy{ctx: ctx, options: options}
}

// Container builds the container once and returns the cached result after.
func (l *Lazy) Container() (*Container, error) {
	l.once.Do(func() {
		l.container, l.err = BuildContainer(l.ctx, l.options())
	})
	return l.container, l.err
}

// Loader returns a config loader without validating the file, for commands
// that must work on a broken config.
func (l *Lazy) Loader() *config.FileLoader {
	return config.NewFileLoader(l.options().ConfigPath)
}

// Close releases the container if it was built.
func (l *Lazy) Close() error {
	if l.container == nil {
		return nil
	}
	return l.container.Close()
}
