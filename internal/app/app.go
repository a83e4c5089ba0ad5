// Package app implements the application layer for seek.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/seek/internal/adapters/cas"
	"go.trai.ch/seek/internal/adapters/loader"
	"go.trai.ch/seek/internal/adapters/shell"
	"go.trai.ch/seek/internal/adapters/tsconfig"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/seek/internal/engine/discovery"
	"go.trai.ch/seek/internal/engine/evaluator"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	walker       ports.FileWalker
	extractor    ports.MetadataExtractor
	registry     *loader.Registry
	logger       ports.Logger

	mu      sync.Mutex
	engines map[engineKey]*served
	// stores holds one persisted tier per cache file, shared by every engine writing it.
	stores map[string]*cas.Store
}

// served is an engine together with the cache file its config names.
type served struct {
	engine    *discovery.Engine
	cachePath string
}

// engineKey identifies an engine by the inputs that shape its configuration.
type engineKey struct {
	root       string
	configPath string
	noCache    bool
	loose      bool
}

// New creates a new App instance.
func New(
	configLoader ports.ConfigLoader,
	walker ports.FileWalker,
	extractor ports.MetadataExtractor,
	registry *loader.Registry,
	log ports.Logger,
) *App {
	return &App{
		configLoader: configLoader,
		walker:       walker,
		extractor:    extractor,
		registry:     registry,
		logger:       log,
		engines:      make(map[engineKey]*served),
		stores:       make(map[string]*cas.Store),
	}
}

// FindOptions configuration for the Find method.
type FindOptions struct {
	// ConfigPath overrides the default seek.yaml location, relative to root.
	ConfigPath string
	// NoCache disables both resolution cache tiers for this run.
	NoCache bool
	// Loose admits files whose names do not match the signature, with a penalty.
	Loose bool
}

// Find discovers the entity described by sig under root.
// Engines are kept per root and options so repeated calls share the memory cache.
func (a *App) Find(ctx context.Context, root string, sig domain.Signature, opts FindOptions) (*domain.Resolution, error) {
	s, err := a.engine(root, opts)
	if err != nil {
		return nil, err
	}
	return s.engine.DiscoverTarget(ctx, sig)
}

// ClearCache resets the memory tier, the persisted cache file and the
// module registry for root. The configured cache file is removed even when
// caching is disabled.
func (a *App) ClearCache(_ context.Context, root, configPath string) error {
	s, err := a.engine(root, FindOptions{ConfigPath: configPath})
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("clearing discovery cache for %s...", s.engine.Root()))
	if err := s.engine.ClearCache(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for key, other := range a.engines {
		if key.root == s.engine.Root() && other != s {
			_ = other.engine.ClearCache()
		}
	}
	if err := a.store(s.cachePath).Clear(); err != nil {
		return err
	}

	a.logger.Info("cleared discovery cache")
	return nil
}

// Stats returns the statistics of the engine serving root with opts, if one exists.
func (a *App) Stats(root string, opts FindOptions) (discovery.Stats, bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return discovery.Stats{}, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.engines[engineKey{root: abs, configPath: opts.ConfigPath, noCache: opts.NoCache, loose: opts.Loose}]
	if !ok {
		return discovery.Stats{}, false
	}
	return s.engine.Stats(), true
}

func (a *App) engine(root string, opts FindOptions) (*served, error) {
	abs, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	key := engineKey{root: abs, configPath: opts.ConfigPath, noCache: opts.NoCache, loose: opts.Loose}

	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.engines[key]; ok {
		return s, nil
	}

	cfg, err := a.configLoader.Load(abs, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.NoCache {
		cfg.Cache.Enabled = false
	}
	if opts.Loose {
		cfg.Scoring.AllowLooseNameMatch = true
	}

	s := &served{engine: a.newEngine(abs, cfg), cachePath: cfg.CachePath(abs)}
	a.engines[key] = s
	return s, nil
}

// store returns the shared persisted tier for path. The caller holds a.mu.
func (a *App) store(path string) *cas.Store {
	path = filepath.Clean(path)
	if s, ok := a.stores[path]; ok {
		return s
	}
	s := cas.NewStore(path, a.logger)
	a.stores[path] = s
	return s
}

// newEngine builds the engine for root. The caller holds a.mu.
func (a *App) newEngine(root string, cfg domain.Config) *discovery.Engine {
	extractor := shell.NewExtractor(cfg.Extraction.Commands, cfg.Extraction.Timeout, a.extractor, a.logger)
	a.registry.Resize(cfg.Cache.MaxModules)

	deps := discovery.Deps{
		Walker:    a.walker,
		Extractor: extractor,
		Loader:    loader.New(extractor, a.registry, cfg.Scoring.Target, cfg.Extraction.Timeout),
		Logger:    a.logger,
		Aliases:   tsconfig.New(root),
	}
	if cfg.Cache.Enabled {
		store := a.store(cfg.CachePath(root))
		deps.Store = store
		if cfg.Scoring.Feedback.Enabled {
			deps.Feedback = evaluator.NewHistoryFeedback(store, cfg.Scoring.Feedback.Weight)
		}
	}
	return discovery.New(root, cfg, deps)
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRootNotDirectory.Error()), "root", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrRootNotDirectory.Error()), "root", abs)
	}
	if !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrRootNotDirectory, "cannot discover in "+abs), "root", abs)
	}
	return abs, nil
}
