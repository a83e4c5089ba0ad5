// Package config loads the discovery configuration from seek.yaml.
package config

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

// Load returns the defaults overlaid with seek.yaml from root, or with the
// file at path when path is set. Only an explicit path must exist.
func (l *Loader) Load(root, path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, domain.ConfigFileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Seekfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if err := apply(&cfg, file.Discovery); err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}

	if l.Logger != nil {
		l.Logger.Debug("loaded config " + path)
	}
	return cfg, nil
}

func apply(cfg *domain.Config, dto *DiscoveryDTO) error {
	if dto == nil {
		return nil
	}

	if dto.Scoring != nil {
		applyScoring(&cfg.Scoring, dto.Scoring)
	}
	if dto.Security != nil && dto.Security.BlockedTokens != nil {
		cfg.Security.BlockedTokens = dto.Security.BlockedTokens
	}
	for name, lang := range dto.Languages {
		if lang.Parser != nil && lang.Parser.MaxFileSize != nil {
			cfg.Languages[name] = domain.LanguageConfig{MaxFileSize: *lang.Parser.MaxFileSize}
		}
	}
	if dto.Parser != nil {
		set(&cfg.Parser.MaxFileSize, dto.Parser.MaxFileSize)
	}
	if dto.Cache != nil {
		set(&cfg.Cache.Enabled, dto.Cache.Enabled)
		set(&cfg.Cache.File, dto.Cache.File)
		set(&cfg.Cache.MemoryEntries, dto.Cache.MemoryEntries)
		set(&cfg.Cache.MaxModules, dto.Cache.MaxModules)
		if err := setDuration(&cfg.Cache.TTL, dto.Cache.TTL, "discovery.cache.ttl"); err != nil {
			return err
		}
	}
	if dto.Extraction != nil {
		if err := setDuration(&cfg.Extraction.Timeout, dto.Extraction.Timeout, "discovery.extraction.timeout"); err != nil {
			return err
		}
		maps.Copy(cfg.Extraction.Commands, dto.Extraction.Commands)
	}
	set(&cfg.Concurrency, dto.Concurrency)
	if dto.SkipDirectories != nil {
		cfg.SkipDirectories = dto.SkipDirectories
	}
	set(&cfg.RespectGitignore, dto.RespectGitignore)
	if dto.Diagnostics != nil {
		set(&cfg.NearMisses, dto.Diagnostics.NearMisses)
	}
	return nil
}

func applyScoring(s *domain.ScoringConfig, dto *ScoringDTO) {
	if dto.Paths != nil {
		if dto.Paths.Positive != nil {
			s.Paths.Positive = dto.Paths.Positive
		}
		if dto.Paths.Negative != nil {
			s.Paths.Negative = dto.Paths.Negative
		}
	}
	if dto.FileName != nil {
		set(&s.FileName.ExactMatch, dto.FileName.ExactMatch)
		set(&s.FileName.CaseInsensitive, dto.FileName.CaseInsensitive)
		set(&s.FileName.PartialMatch, dto.FileName.PartialMatch)
		set(&s.FileName.RegexMatch, dto.FileName.RegexMatch)
	}
	maps.Copy(s.Extensions, dto.Extensions)
	for kind, w := range dto.TypeHints {
		s.TypeHints[domain.Kind(kind)] = w
	}
	applyMention(&s.Methods, dto.Methods)
	applyMention(&s.Names, dto.Names)
	if dto.Exports != nil {
		set(&s.Exports.Default, dto.Exports.Default)
		set(&s.Exports.Named, dto.Exports.Named)
		set(&s.Exports.Generic, dto.Exports.Generic)
	}
	if dto.Target != nil {
		set(&s.Target.ExactName, dto.Target.ExactName)
		set(&s.Target.PatternName, dto.Target.PatternName)
		set(&s.Target.MethodMatch, dto.Target.MethodMatch)
	}
	set(&s.MinCandidateScore, dto.MinCandidateScore)
	set(&s.AllowLooseNameMatch, dto.AllowLooseNameMatch)
	set(&s.LooseNamePenalty, dto.LooseNamePenalty)
	if dto.Recency != nil {
		set(&s.Recency.MaxBonus, dto.Recency.MaxBonus)
		set(&s.Recency.HalfLifeHours, dto.Recency.HalfLifeHours)
	}
	if dto.Feedback != nil {
		set(&s.Feedback.Enabled, dto.Feedback.Enabled)
		set(&s.Feedback.Weight, dto.Feedback.Weight)
	}
}

func applyMention(dst *domain.MentionWeights, dto *MentionDTO) {
	if dto == nil {
		return
	}
	set(&dst.PerMention, dto.PerMention)
	set(&dst.MaxMentions, dto.MaxMentions)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "key", key)
	}
	*dst = d
	return nil
}
