package deco

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// Factory creates decorations that share one options provider and one shadow
// cache.
type Factory struct {
	mu        sync.Mutex
	provider  OptionsProvider
	cache     *shadow.Cache
	scheduler Scheduler
	logger    *slog.Logger
	live      map[*Decoration]struct{}
}

// NewFactory returns a factory. A nil cache gets a private one.
func NewFactory(provider OptionsProvider, cache *shadow.Cache, scheduler Scheduler, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = shadow.NewCache(logger, nil)
	}
	if provider == nil {
		provider = StaticOptions(DefaultOptions())
	}
	return &Factory{
		provider:  provider,
		cache:     cache,
		scheduler: scheduler,
		logger:    logger,
		live:      make(map[*Decoration]struct{}),
	}
}

// Create builds and initializes a decoration for c.
func (f *Factory) Create(c Client, s Settings) (*Decoration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := New(c, s, f.provider, f.cache, f.scheduler, f.logger)
	d.onClose = f.forget
	if err := d.Init(); err != nil {
		d.onClose = nil
		d.Close()
		return nil, fmt.Errorf("init decoration: %w", err)
	}
	f.live[d] = struct{}{}
	return d, nil
}

func (f *Factory) forget(d *Decoration) {
	f.mu.Lock()
	delete(f.live, d)
	f.mu.Unlock()
}

// Reconfigure swaps the options provider and reconfigures every live
// decoration. Every decoration is attempted; the errors are joined.
func (f *Factory) Reconfigure(provider OptionsProvider) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if provider != nil {
		f.provider = provider
	}
	var errs []error
	for d := range f.live {
		d.provider = f.provider
		if err := d.SettingsReconfigured(); err != nil {
			errs = append(errs, err)
		}
	}
	f.logger.Info("decorations reconfigured", "count", len(f.live))
	return errors.Join(errs...)
}

// Provider returns the current options provider.
func (f *Factory) Provider() OptionsProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.provider
}

// Cache returns the shared shadow cache.
func (f *Factory) Cache() *shadow.Cache {
	return f.cache
}

// Len returns the number of live decorations.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}
