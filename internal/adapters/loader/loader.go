// Package loader loads candidate modules by static analysis and checks them
// structurally against a signature.
package loader

import (
	"context"
	"path/filepath"
	"time"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/seek/internal/engine/scoring"
	"go.trai.ch/zerr"
)

var _ ports.ModuleLoader = (*Loader)(nil)

// Loader implements ports.ModuleLoader. Candidate code is never executed:
// a module is its extracted export metadata.
type Loader struct {
	extractor ports.MetadataExtractor
	registry  *Registry
	target    domain.TargetWeights
	timeout   time.Duration
}

// New creates a Loader over a shared registry.
func New(extractor ports.MetadataExtractor, registry *Registry, target domain.TargetWeights, timeout time.Duration) *Loader {
	if registry == nil {
		registry = NewRegistry(domain.MaxCachedModules)
	}
	return &Loader{extractor: extractor, registry: registry, target: target, timeout: timeout}
}

// Load returns the registered handle when the file is unchanged since it was
// loaded. Otherwise it uses the candidate's metadata, extracting it again if
// the evaluator produced none.
func (l *Loader) Load(ctx context.Context, c *domain.Candidate) (*domain.ModuleHandle, error) {
	if h, ok := l.registry.Get(c.Path); ok && h.MtimeMs == c.MtimeMs {
		return h, nil
	}

	meta := c.Metadata
	if meta == nil && l.extractor != nil {
		var err error
		meta, err = l.extract(ctx, c)
		if err != nil {
			return nil, err
		}
	}
	if meta == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoMetadata, "cannot load module"), "path", c.Path)
	}

	h := &domain.ModuleHandle{Path: c.Path, MtimeMs: c.MtimeMs, Metadata: meta}
	l.registry.Put(h)
	return h, nil
}

func (l *Loader) extract(ctx context.Context, c *domain.Candidate) (*domain.ExportMetadata, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	meta, err := l.extractor.Extract(ctx, []byte(c.Content), c.Path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNoMetadata.Error()), "path", c.Path)
	}
	return meta, nil
}

// Validate picks, among the exports satisfying sig, the one with the
// largest target bonus. Ties keep declaration order.
func (l *Loader) Validate(h *domain.ModuleHandle, sig domain.Signature) (domain.Validation, bool) {
	v := domain.EligibleEntries(h.Metadata, sig, domain.FileStem(filepath.Base(h.Path)))
	if len(v.Entries) == 0 {
		return v, false
	}

	best := -1
	var bestBonus domain.ScoreBreakdown
	for i, entry := range v.Entries {
		bonus := scoring.TargetBonus(l.target, entry, sig)
		if best < 0 || bonus.Total() > bestBonus.Total() {
			best, bestBonus = i, bonus
		}
	}
	entry := v.Entries[best]
	v.Entry = &entry
	v.Bonus = bestBonus
	return v, true
}

// Reset drops every registered module.
func (l *Loader) Reset() {
	l.registry.Purge()
}
