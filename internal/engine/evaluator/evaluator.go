// Package evaluator turns a single file into a scored candidate, or rejects it.
package evaluator

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/seek/internal/engine/scoring"
)

// Outcome classifies what happened to a file.
type Outcome int

// Evaluation outcomes. Only OutcomeAccepted yields a candidate.
const (
	OutcomeAccepted Outcome = iota
	OutcomeUnsupported
	OutcomeNameMismatch
	OutcomeTooLarge
	OutcomeUnreadable
	OutcomeUnsafe
	OutcomeBelowMinimum
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeNameMismatch:
		return "name-mismatch"
	case OutcomeTooLarge:
		return "too-large"
	case OutcomeUnreadable:
		return "unreadable"
	case OutcomeUnsafe:
		return "unsafe"
	case OutcomeBelowMinimum:
		return "below-minimum"
	default:
		return "unknown"
	}
}

// Evaluator runs the per-file pipeline: quick name check, size gate, read,
// safety filter, metadata extraction, scoring and the minimum-score gate.
type Evaluator struct {
	cfg       domain.Config
	scorer    *scoring.Engine
	extractor ports.MetadataExtractor
	aliases   ports.AliasResolver
	feedback  ports.FeedbackProvider
	logger    ports.Logger
	now       func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAliasResolver annotates candidates with import aliases.
func WithAliasResolver(r ports.AliasResolver) Option {
	return func(e *Evaluator) { e.aliases = r }
}

// WithFeedback adds a feedback bonus.
func WithFeedback(f ports.FeedbackProvider) Option {
	return func(e *Evaluator) { e.feedback = f }
}

// WithClock overrides the clock used for the recency bonus.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// New creates an Evaluator. extractor may be nil, in which case no metadata is produced.
func New(
	cfg domain.Config,
	scorer *scoring.Engine,
	extractor ports.MetadataExtractor,
	logger ports.Logger,
	opts ...Option,
) *Evaluator {
	e := &Evaluator{
		cfg:       cfg,
		scorer:    scorer,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate processes one file under root. It never returns an error: any
// failure rejects this file only.
func (e *Evaluator) Evaluate(ctx context.Context, root, path string, sig domain.Signature) (*domain.Candidate, Outcome) {
	fileName := filepath.Base(path)
	language := domain.LanguageForFile(fileName)
	if !e.supported(fileName, language, sig) {
		return nil, OutcomeUnsupported
	}

	quick := QuickNameMatch(fileName, sig)
	if !quick && !e.cfg.Scoring.AllowLooseNameMatch {
		return nil, OutcomeNameMismatch
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, OutcomeUnreadable
	}
	if info.Size() > e.cfg.MaxFileSizeFor(language) {
		return nil, OutcomeTooLarge
	}

	//nolint:gosec // Path comes from walking the trusted root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, OutcomeUnreadable
	}
	content := string(data)

	if !IsCandidateSafe(content, e.cfg.Security.BlockedTokens) {
		e.logger.Debug("rejected unsafe candidate " + path)
		return nil, OutcomeUnsafe
	}

	c := &domain.Candidate{
		Path:             path,
		FileName:         fileName,
		RelativePath:     relativePath(root, path),
		Content:          content,
		MtimeMs:          domain.MtimeMs(info.ModTime()),
		Size:             info.Size(),
		Language:         language,
		QuickNameMatched: quick,
	}
	c.Metadata = e.extract(ctx, data, path)

	c.SetBreakdown(e.scorer.Score(c, sig, content).Breakdown)
	c.AddScore("recency", RecencyBonus(e.cfg.Scoring.Recency, info.ModTime(), e.now()))
	if e.feedback != nil {
		c.AddScore("feedback:history", e.feedback.Bonus(c, sig))
	}
	if !quick {
		c.AddScore("loose-name-penalty", -math.Abs(e.cfg.Scoring.LooseNamePenalty))
	}

	if c.Score <= e.cfg.Scoring.MinCandidateScore {
		return nil, OutcomeBelowMinimum
	}

	e.annotate(c)
	return c, OutcomeAccepted
}

func (e *Evaluator) supported(fileName, language string, sig domain.Signature) bool {
	if sig.Language != "" {
		return language == sig.Language
	}
	if language != "" {
		return true
	}
	_, ok := e.cfg.Scoring.Extensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

func (e *Evaluator) extract(ctx context.Context, data []byte, path string) *domain.ExportMetadata {
	if e.extractor == nil {
		return nil
	}
	timeout := e.cfg.Extraction.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultConfig().Extraction.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	meta, err := e.extractor.Extract(ctx, data, path)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedLanguage):
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrExtractionTimeout):
			e.logger.Warn("metadata extraction timed out for " + path)
		default:
			e.logger.Debug("metadata extraction failed for " + path + ": " + err.Error())
		}
		return nil
	}
	return meta
}

func (e *Evaluator) annotate(c *domain.Candidate) {
	if e.aliases == nil {
		return
	}
	if aliases, err := e.aliases.Aliases(c.Path); err == nil {
		c.Aliases = aliases
	}
	if base, err := e.aliases.BaseImport(c.Path); err == nil {
		c.BaseImport = base
	}
}

// RecencyBonus decays exponentially with file age: maxBonus at age zero,
// half of it after one half-life. Future mtimes count as age zero.
func RecencyBonus(cfg domain.RecencyConfig, mtime, now time.Time) float64 {
	if cfg.MaxBonus <= 0 || cfg.HalfLifeHours <= 0 {
		return 0
	}
	age := now.Sub(mtime).Hours()
	if age < 0 {
		age = 0
	}
	return cfg.MaxBonus * math.Exp2(-age/cfg.HalfLifeHours)
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
}
