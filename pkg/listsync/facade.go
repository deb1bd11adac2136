package listsync

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/devconsole/liststate/pkg/liststate"
	"github.com/devconsole/liststate/pkg/router"
	"github.com/devconsole/liststate/pkg/urlparam"
)

// DefaultCacheSize is the number of memoized reads kept per Facade.
const DefaultCacheSize = 128

// Facade reads and writes list states through a navigator.
// It is safe for concurrent use; concurrent writes are not coordinated and
// the last navigation wins.
type Facade struct {
	nav      router.Navigator
	defaults liststate.Defaults
	logger   *slog.Logger
	observer Observer
	cache    *lru.Cache[cacheKey, liststate.ListState]
}

// Option configures a Facade.
type Option func(*facadeConfig)

type facadeConfig struct {
	defaults  liststate.Defaults
	logger    *slog.Logger
	cacheSize int
	observers []Observer
}

// WithDefaults sets the per-resource page sizes and base paths.
func WithDefaults(d liststate.Defaults) Option {
	return func(c *facadeConfig) {
		c.defaults = d
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *facadeConfig) {
		c.logger = l
	}
}

// WithCacheSize sets the number of memoized reads. Values below one use
// DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(c *facadeConfig) {
		c.cacheSize = n
	}
}

// WithObserver adds an observer notified of reads and writes.
func WithObserver(o Observer) Option {
	return func(c *facadeConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// New creates a Facade driving nav.
func New(nav router.Navigator, opts ...Option) *Facade {
	cfg := facadeConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.defaults == nil {
		cfg.defaults = liststate.BuiltinDefaults()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.cacheSize < 1 {
		cfg.cacheSize = DefaultCacheSize
	}

	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[cacheKey, liststate.ListState](cfg.cacheSize)

	return &Facade{
		nav:      nav,
		defaults: cfg.defaults,
		logger:   cfg.logger,
		observer: Observers(cfg.observers...),
		cache:    cache,
	}
}

// cacheKey identifies a memoized read. The query is canonical: key order
// is irrelevant while the order of repeated values (selections) is kept.
type cacheKey struct {
	kind     liststate.Kind
	path     string
	query    string
	perPage  int
	basePath string
}

// extras resolves caller overrides against the configured defaults.
func (f *Facade) extras(k liststate.Kind, override liststate.Extras, loc router.Location) liststate.Extras {
	e := f.defaults.Extras(k, loc)
	if override.PerPage > 0 {
		e.PerPage = override.PerPage
	}
	if override.BasePath != "" {
		e.BasePath = override.BasePath
	}
	return e
}

func (f *Facade) lookup(k liststate.Kind) error {
	if _, err := liststate.Lookup(k); err != nil {
		f.logger.Warn("liststate: unknown resource", "resource", k.String())
		return err
	}
	return nil
}

// Read returns the list state of k at the current location.
func (f *Facade) Read(k liststate.Kind) (liststate.ListState, error) {
	return f.ReadWith(k, liststate.Extras{})
}

// ReadWith is Read with per-call overrides of PerPage and BasePath.
// The returned state is shared with the memo cache; treat its slices and
// maps as read-only.
func (f *Facade) ReadWith(k liststate.Kind, override liststate.Extras) (liststate.ListState, error) {
	if err := f.lookup(k); err != nil {
		return liststate.ListState{}, err
	}

	loc := f.nav.Location()
	extras := f.extras(k, override, loc)
	query := loc.Query()
	key := cacheKey{
		kind:     k,
		path:     loc.Path,
		query:    urlparam.Canonical(query),
		perPage:  extras.PerPage,
		basePath: extras.BasePath,
	}

	if s, ok := f.cache.Get(key); ok {
		f.observer.ObserveRead(k, true)
		return s, nil
	}

	s, err := liststate.Parse(k, query, extras)
	if err != nil {
		return liststate.ListState{}, err
	}
	f.cache.Add(key, s)
	f.observer.ObserveRead(k, false)
	return s, nil
}

// Write navigates to the location of s. The navigation replaces the
// current history entry unless opts say otherwise.
func (f *Facade) Write(k liststate.Kind, s liststate.ListState, opts ...router.NavigateOption) error {
	return f.WriteWith(k, s, liststate.Extras{}, opts...)
}

// WriteWith is Write with per-call overrides of PerPage and BasePath.
// Exactly one navigation is issued; its error is returned unchanged.
func (f *Facade) WriteWith(k liststate.Kind, s liststate.ListState, override liststate.Extras, opts ...router.NavigateOption) error {
	if err := f.lookup(k); err != nil {
		return err
	}

	target, err := f.Target(k, s, override)
	if err != nil {
		return err
	}

	navOpts := append([]router.NavigateOption{router.WithReplace()}, opts...)
	resolved := router.ApplyOptions(navOpts...)

	finish := f.observer.BeginWrite(k, target)
	err = f.nav.Navigate(target, navOpts...)
	finish(err)
	if err != nil {
		f.logger.Error("liststate: navigation failed",
			"resource", k.String(),
			"target", target,
			"error", err,
		)
		return err
	}

	f.logger.Debug("liststate: navigated",
		"resource", k.String(),
		"target", target,
		"replace", resolved.Replace,
	)
	return nil
}

// Target returns the "path?query" Write would navigate to for s.
func (f *Facade) Target(k liststate.Kind, s liststate.ListState, override liststate.Extras) (string, error) {
	extras := f.extras(k, override, f.nav.Location())
	query, err := liststate.Format(k, s, extras)
	if err != nil {
		return "", err
	}
	path, err := liststate.Locate(k, s, extras)
	if err != nil {
		return "", err
	}
	return router.Location{Path: path, RawQuery: query}.String(), nil
}

// Purge drops every memoized read.
func (f *Facade) Purge() {
	f.cache.Purge()
}
