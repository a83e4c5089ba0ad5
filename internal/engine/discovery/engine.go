// Package discovery resolves a signature to the source file that best
// satisfies it under a root directory.
package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/seek/internal/engine/evaluator"
	"go.trai.ch/seek/internal/engine/scoring"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const defaultNearMisses = 5

// Deps are the collaborators of an Engine. Store, Aliases, Feedback and
// Extractor are optional.
type Deps struct {
	Walker        ports.FileWalker
	Extractor     ports.MetadataExtractor
	Loader        ports.ModuleLoader
	Store         ports.CacheStore
	Logger        ports.Logger
	Aliases       ports.AliasResolver
	Feedback      ports.FeedbackProvider
	CustomScorers []ports.CustomScorer
}

// Engine discovers targets under one root with one configuration.
// It is safe for concurrent use.
type Engine struct {
	root string
	cfg  domain.Config
	deps Deps

	evaluator *evaluator.Evaluator
	memory    *lru.Cache[string, domain.CacheEntry]
	now       func() time.Time

	mu    sync.RWMutex
	state domain.DiscoveryState

	stats counters
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for cache expiry and recency.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine for root. The persisted tier is used only when
// caching is enabled and deps.Store is set.
func New(root string, cfg domain.Config, deps Deps, opts ...Option) *Engine {
	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}
	e := &Engine{
		root: root,
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if !cfg.Cache.Enabled {
		e.deps.Store = nil
	} else {
		size := cfg.Cache.MemoryEntries
		if size <= 0 {
			size = domain.DefaultConfig().Cache.MemoryEntries
		}
		// Size is positive here, so lru.New cannot fail.
		e.memory, _ = lru.New[string, domain.CacheEntry](size)
	}

	evalOpts := []evaluator.Option{evaluator.WithClock(e.now)}
	if deps.Aliases != nil {
		evalOpts = append(evalOpts, evaluator.WithAliasResolver(deps.Aliases))
	}
	if deps.Feedback != nil {
		evalOpts = append(evalOpts, evaluator.WithFeedback(deps.Feedback))
	}
	e.evaluator = evaluator.New(
		cfg,
		scoring.New(cfg.Scoring, deps.CustomScorers...),
		deps.Extractor,
		deps.Logger,
		evalOpts...,
	)
	return e
}

// Root returns the directory the engine searches.
func (e *Engine) Root() string {
	return e.root
}

// State returns the state reached by the most recent discovery.
func (e *Engine) State() domain.DiscoveryState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *Engine) transition(s domain.DiscoveryState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.deps.Logger.Debug("discovery: " + s.String())
}

// DiscoverTarget resolves sig. It returns an *domain.ExhaustionError when no
// candidate validates and wraps domain.ErrInvalidSignature for bad input;
// every per-file failure is absorbed.
func (e *Engine) DiscoverTarget(ctx context.Context, sig domain.Signature) (*domain.Resolution, error) {
	norm, err := sig.Normalize()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidSignature.Error())
	}
	hash := norm.Hash()

	if res := e.lookup(hash); res != nil {
		e.transition(domain.StateResolved)
		return res, nil
	}

	e.transition(domain.StateCollectingCandidates)
	candidates := e.collect(ctx, norm)
	if err := ctx.Err(); err != nil {
		e.transition(domain.StateIdle)
		return nil, err
	}

	e.transition(domain.StateRanking)
	Rank(candidates)

	e.transition(domain.StateResolving)
	res, misses := e.resolve(ctx, candidates, norm)
	if res != nil {
		res.SignatureHash = hash
		e.remember(hash, res)
		e.transition(domain.StateResolved)
		return res, nil
	}

	e.transition(domain.StateExhausted)
	return nil, e.exhaustion(norm, candidates, misses)
}

// Rank orders candidates by descending score, breaking ties by relative
// path so resolution order is reproducible.
func Rank(candidates []*domain.Candidate) {
	slices.SortStableFunc(candidates, func(a, b *domain.Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		if c := strings.Compare(a.RelativePath, b.RelativePath); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

// collect walks the root and evaluates every file with bounded concurrency.
func (e *Engine) collect(ctx context.Context, sig domain.Signature) []*domain.Candidate {
	e.stats.traversals.Add(1)

	var (
		g   errgroup.Group
		mu  sync.Mutex
		out []*domain.Candidate
	)
	g.SetLimit(e.cfg.EffectiveConcurrency())

	for path := range e.deps.Walker.WalkFiles(e.root, e.cfg.WalkOptions()) {
		if ctx.Err() != nil {
			break
		}
		e.stats.visited.Add(1)
		g.Go(func() error {
			c, outcome := e.evaluator.Evaluate(ctx, e.root, path, sig)
			switch outcome {
			case evaluator.OutcomeAccepted:
				e.stats.scored.Add(1)
				mu.Lock()
				out = append(out, c)
				mu.Unlock()
			case evaluator.OutcomeBelowMinimum:
				e.stats.scored.Add(1)
			case evaluator.OutcomeUnsafe:
				e.stats.unsafe.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type attempt struct {
	candidate  *domain.Candidate
	validation domain.Validation
	final      float64
}

// resolve validates candidates in rank order. Once one validates, the rest
// of its pre-load score tie group is still tried and the best final score wins.
func (e *Engine) resolve(ctx context.Context, candidates []*domain.Candidate, sig domain.Signature) (*domain.Resolution, []domain.NearMiss) {
	var (
		best   *attempt
		misses []domain.NearMiss
	)
	for _, c := range candidates {
		if best != nil && c.Score != best.candidate.Score {
			break
		}
		if ctx.Err() != nil {
			break
		}

		h, err := e.deps.Loader.Load(ctx, c)
		if err != nil {
			misses = append(misses, nearMiss(c, loadRejection(err)))
			continue
		}
		v, ok := e.deps.Loader.Validate(h, sig)
		if !ok {
			misses = append(misses, nearMiss(c, v.Reason))
			continue
		}

		final := c.Score + v.Bonus.Total()
		if best == nil || final > best.final {
			best = &attempt{candidate: c, validation: v, final: final}
		}
	}

	if best == nil {
		return nil, misses
	}
	return resolution(best), misses
}

func resolution(a *attempt) *domain.Resolution {
	c := a.candidate
	b := slices.Clone(c.Breakdown)
	for _, f := range a.validation.Bonus {
		b.Add(f.Name, f.Points)
	}
	return &domain.Resolution{
		Path:         c.Path,
		RelativePath: c.RelativePath,
		Access:       a.validation.Entry.Access,
		Export:       a.validation.Entry,
		Score:        b.Total(),
		Breakdown:    b,
		Aliases:      c.Aliases,
		BaseImport:   c.BaseImport,
	}
}

func loadRejection(err error) string {
	if errors.Is(err, domain.ErrNoMetadata) {
		return domain.ErrNoMetadata.Error()
	}
	return err.Error()
}

func nearMiss(c *domain.Candidate, rejection string) domain.NearMiss {
	return domain.NearMiss{
		Path:      c.RelativePath,
		Score:     c.Score,
		Reasons:   c.Breakdown.Top(3),
		Rejection: rejection,
	}
}

func (e *Engine) exhaustion(sig domain.Signature, candidates []*domain.Candidate, misses []domain.NearMiss) error {
	limit := e.cfg.NearMisses
	if limit <= 0 {
		limit = defaultNearMisses
	}
	if len(misses) > limit {
		misses = misses[:limit]
	}

	exErr := &domain.ExhaustionError{
		Signature:  sig,
		Considered: len(candidates),
		NearMisses: misses,
	}
	if len(candidates) > 0 {
		exErr.Suggested = Suggest(candidates[0], sig)
	}
	return exErr
}

// Suggest derives a signature describing what the best candidate actually
// exports, to help correct sig.
func Suggest(c *domain.Candidate, sig domain.Signature) *domain.Signature {
	stem := domain.FileStem(c.FileName)
	entry := c.Metadata.Primary()
	if entry == nil {
		return &domain.Signature{Name: domain.LiteralName(stem), Type: sig.Type, Language: c.Language}
	}

	name := entry.Info.Name
	if name == "" {
		name = stem
	}
	s := &domain.Signature{
		Name:       domain.LiteralName(name),
		Type:       entry.Info.Kind,
		Methods:    slices.Clone(entry.Info.Methods),
		Properties: slices.Clone(entry.Info.Properties),
		Extends:    entry.Info.Extends,
		Language:   c.Language,
	}
	switch entry.Access.Type {
	case domain.AccessDefault:
		s.Exports = domain.ExportsDefault
	case domain.AccessNamed:
		s.Exports = entry.ExportedName
	}
	return s
}

// lookup serves a cached resolution. Entries that expired or whose file
// changed are dropped from memory and reported as a miss.
func (e *Engine) lookup(hash string) *domain.Resolution {
	if e.memory == nil {
		return nil
	}

	entry, ok := e.memory.Get(hash)
	promote := false
	if !ok && e.deps.Store != nil {
		stored, err := e.deps.Store.Get(hash)
		if err != nil {
			e.deps.Logger.Warn("discovery cache read failed: " + err.Error())
		}
		if stored != nil {
			entry, ok, promote = *stored, true, true
		}
	}
	if !ok {
		e.stats.misses.Add(1)
		return nil
	}

	info, err := os.Stat(entry.Path)
	if err != nil || !entry.Valid(e.now(), domain.MtimeMs(info.ModTime())) {
		e.memory.Remove(hash)
		e.stats.misses.Add(1)
		e.deps.Logger.Debug("discovery cache entry for " + entry.Path + " is stale")
		return nil
	}
	if promote {
		e.memory.Add(hash, entry)
	}
	e.stats.hits.Add(1)
	e.deps.Logger.Debug("discovery cache hit " + hash + " -> " + entry.Path)

	res := &domain.Resolution{
		Path:          entry.Path,
		RelativePath:  relativePath(e.root, entry.Path),
		Access:        entry.Access,
		Score:         entry.Score,
		FromCache:     true,
		SignatureHash: hash,
	}
	if e.deps.Aliases != nil {
		res.Aliases, _ = e.deps.Aliases.Aliases(entry.Path)
		res.BaseImport, _ = e.deps.Aliases.BaseImport(entry.Path)
	}
	return res
}

// remember writes res to both tiers against the file's current mtime.
func (e *Engine) remember(hash string, res *domain.Resolution) {
	if e.memory == nil {
		return
	}
	info, err := os.Stat(res.Path)
	if err != nil {
		return
	}
	ttl := e.cfg.Cache.TTL
	if ttl <= 0 {
		ttl = domain.DefaultConfig().Cache.TTL
	}

	entry := domain.CacheEntry{
		Path:      res.Path,
		Access:    res.Access,
		Score:     res.Score,
		MtimeMs:   domain.MtimeMs(info.ModTime()),
		ExpiresAt: e.now().Add(ttl).UnixMilli(),
	}
	e.memory.Add(hash, entry)
	if e.deps.Store != nil {
		if err := e.deps.Store.Put(hash, entry); err != nil {
			e.deps.Logger.Warn("discovery cache write failed: " + err.Error())
		}
	}
}

// ClearCache resets the memory tier, the persisted file and the module registry.
func (e *Engine) ClearCache() error {
	if e.memory != nil {
		e.memory.Purge()
	}
	e.deps.Loader.Reset()
	if e.deps.Store != nil {
		return e.deps.Store.Clear()
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string) {}
func (nopLogger) Info(string)  {}
func (nopLogger) Warn(string)  {}
func (nopLogger) Error(error)  {}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return "/" + filepath.ToSlash(rel)
}
