package domain

import (
	"path/filepath"
	"runtime"
	"time"
)

const (
	// MaxFileSizeCeiling is the hard safeguard on file size, applied after configuration.
	MaxFileSizeCeiling int64 = 10 * 1024 * 1024

	// DefaultMaxFileSize is the global parser default file size limit.
	DefaultMaxFileSize int64 = 1_000_000

	// MaxCachedModules bounds the loaded-module registry.
	MaxCachedModules = 100

	// MaxConcurrency is the upper clamp for traversal fan-out.
	MaxConcurrency = 64
)

// Config is the discovery configuration surface.
type Config struct {
	Scoring          ScoringConfig
	Security         SecurityConfig
	Languages        map[string]LanguageConfig
	Parser           ParserConfig
	Cache            CacheConfig
	Extraction       ExtractionConfig
	Concurrency      int
	SkipDirectories  []string
	RespectGitignore bool
	NearMisses       int
}

// ScoringConfig holds every scoring weight.
type ScoringConfig struct {
	Paths               PathWeights
	FileName            FileNameWeights
	Extensions          map[string]float64
	TypeHints           map[Kind]float64
	Methods             MentionWeights
	Exports             ExportWeights
	Names               MentionWeights
	Target              TargetWeights
	MinCandidateScore   float64
	AllowLooseNameMatch bool
	LooseNamePenalty    float64
	Recency             RecencyConfig
	Feedback            FeedbackConfig
}

// PathWeights are substring weights applied to the relative path.
type PathWeights struct {
	Positive map[string]float64
	Negative map[string]float64
}

// FileNameWeights are the exclusive file name tiers.
type FileNameWeights struct {
	ExactMatch      float64
	CaseInsensitive float64
	PartialMatch    float64
	RegexMatch      float64
}

// MentionWeights award points per textual mention up to a cap.
type MentionWeights struct {
	PerMention  float64
	MaxMentions int
}

// ExportWeights award points for textual export-style hints.
type ExportWeights struct {
	Default float64
	Named   float64
	Generic float64
}

// TargetWeights are post-load bonuses awarded by the structural validator.
type TargetWeights struct {
	ExactName   float64
	PatternName float64
	MethodMatch float64
}

// RecencyConfig shapes the recency bonus curve.
type RecencyConfig struct {
	MaxBonus      float64
	HalfLifeHours float64
}

// FeedbackConfig controls the history feedback bonus.
type FeedbackConfig struct {
	Enabled bool
	Weight  float64
}

// SecurityConfig holds the textual denylist.
type SecurityConfig struct {
	BlockedTokens []string
}

// LanguageConfig holds per-language overrides.
type LanguageConfig struct {
	MaxFileSize int64
}

// ParserConfig holds the global parser defaults.
type ParserConfig struct {
	MaxFileSize int64
}

// CacheConfig controls both resolution cache tiers.
type CacheConfig struct {
	Enabled       bool
	File          string
	TTL           time.Duration
	MemoryEntries int
	// MaxModules bounds the loaded-module registry.
	MaxModules int
}

// ExtractionConfig controls metadata extraction.
type ExtractionConfig struct {
	Timeout time.Duration
	// Commands maps a language name to an external extractor argv.
	Commands map[string][]string
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Scoring: ScoringConfig{
			Paths: PathWeights{
				Positive: map[string]float64{
					"/src/":  10,
					"/lib/":  8,
					"/core/": 6,
					"/app/":  4,
				},
				Negative: map[string]float64{
					"/tests/":      -15,
					"/test/":       -15,
					"/__tests__/":  -15,
					"/__mocks__/":  -20,
					"/fixtures/":   -10,
					"/deprecated/": -12,
					"/legacy/":     -8,
					"/dist/":       -25,
					"/build/":      -25,
				},
			},
			FileName: FileNameWeights{
				ExactMatch:      25,
				CaseInsensitive: 18,
				PartialMatch:    8,
				RegexMatch:      12,
			},
			Extensions: map[string]float64{
				".ts":  6,
				".tsx": 5,
				".js":  4,
				".jsx": 3,
				".mjs": 3,
				".cjs": 2,
				".mts": 3,
				".cts": 2,
				".py":  4,
				".go":  4,
			},
			TypeHints: map[Kind]float64{
				KindClass:    10,
				KindFunction: 8,
				KindObject:   4,
				KindModule:   3,
			},
			Methods: MentionWeights{PerMention: 3, MaxMentions: 10},
			Exports: ExportWeights{Default: 6, Named: 8, Generic: 3},
			Names:   MentionWeights{PerMention: 2, MaxMentions: 5},
			Target: TargetWeights{
				ExactName:   20,
				PatternName: 10,
				MethodMatch: 4,
			},
			MinCandidateScore: 0,
			LooseNamePenalty:  20,
			Recency:           RecencyConfig{MaxBonus: 5, HalfLifeHours: 72},
			Feedback:          FeedbackConfig{Enabled: false, Weight: 5},
		},
		Security: SecurityConfig{
			BlockedTokens: []string{
				"process.exit(",
				"process.kill(",
				"child_process",
				"execSync(",
				"spawnSync(",
				"rm -rf",
				"rimraf",
				"fs.rmSync(",
				"fs.rmdirSync(",
				"os.system(",
				"subprocess.",
				"shutil.rmtree(",
				"os.RemoveAll(",
				"os.Exit(",
				"exec.Command(",
				"syscall.Kill",
			},
		},
		Languages: map[string]LanguageConfig{},
		Parser:    ParserConfig{MaxFileSize: DefaultMaxFileSize},
		Cache: CacheConfig{
			Enabled:       true,
			File:          DefaultCachePath(),
			TTL:           24 * time.Hour,
			MemoryEntries: 256,
			MaxModules:    MaxCachedModules,
		},
		Extraction: ExtractionConfig{
			Timeout:  5 * time.Second,
			Commands: map[string][]string{},
		},
		Concurrency: runtime.NumCPU() * 2,
		SkipDirectories: []string{
			"node_modules", ".git", ".hg", ".svn", ".jj", "dist", "build", "coverage",
			".next", "vendor", "__pycache__", ".venv", "venv", SeekDirName,
		},
		RespectGitignore: true,
		NearMisses:       5,
	}
}

// MaxFileSizeFor resolves the effective size limit for a language: the
// per-language value, else the global parser default, never above the ceiling.
func (c Config) MaxFileSizeFor(language string) int64 {
	limit := c.Parser.MaxFileSize
	if lc, ok := c.Languages[language]; ok && lc.MaxFileSize > 0 {
		limit = lc.MaxFileSize
	}
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if limit > MaxFileSizeCeiling {
		limit = MaxFileSizeCeiling
	}
	return limit
}

// EffectiveConcurrency clamps Concurrency to [1, MaxConcurrency].
func (c Config) EffectiveConcurrency() int {
	switch {
	case c.Concurrency < 1:
		return 1
	case c.Concurrency > MaxConcurrency:
		return MaxConcurrency
	default:
		return c.Concurrency
	}
}

// CachePath returns the absolute persisted cache path for root.
func (c Config) CachePath(root string) string {
	file := c.Cache.File
	if file == "" {
		file = DefaultCachePath()
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(root, file)
}
