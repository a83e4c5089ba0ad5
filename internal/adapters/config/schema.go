package config

// Seekfile represents the structure of the seek.yaml configuration file.
// Pointer and nil-able fields distinguish "absent" from "zero".
type Seekfile struct {
	Discovery *DiscoveryDTO `yaml:"discovery"`
}

// DiscoveryDTO is the discovery section.
type DiscoveryDTO struct {
	Scoring          *ScoringDTO            `yaml:"scoring"`
	Security         *SecurityDTO           `yaml:"security"`
	Languages        map[string]LanguageDTO `yaml:"languages"`
	Parser           *ParserDTO             `yaml:"parser"`
	Cache            *CacheDTO              `yaml:"cache"`
	Extraction       *ExtractionDTO         `yaml:"extraction"`
	Concurrency      *int                   `yaml:"concurrency"`
	SkipDirectories  []string               `yaml:"skipDirectories"`
	RespectGitignore *bool                  `yaml:"respectGitignore"`
	Diagnostics      *DiagnosticsDTO        `yaml:"diagnostics"`
}

// ScoringDTO holds scoring weights.
type ScoringDTO struct {
	Paths               *PathsDTO          `yaml:"paths"`
	FileName            *FileNameDTO       `yaml:"fileName"`
	Extensions          map[string]float64 `yaml:"extensions"`
	TypeHints           map[string]float64 `yaml:"typeHints"`
	Methods             *MentionDTO        `yaml:"methods"`
	Exports             *ExportsDTO        `yaml:"exports"`
	Names               *MentionDTO        `yaml:"names"`
	Target              *TargetDTO         `yaml:"target"`
	MinCandidateScore   *float64           `yaml:"minCandidateScore"`
	AllowLooseNameMatch *bool              `yaml:"allowLooseNameMatch"`
	LooseNamePenalty    *float64           `yaml:"looseNamePenalty"`
	Recency             *RecencyDTO        `yaml:"recency"`
	Feedback            *FeedbackDTO       `yaml:"feedback"`
}

// PathsDTO holds path substring weights. A given table replaces the default.
type PathsDTO struct {
	Positive map[string]float64 `yaml:"positive"`
	Negative map[string]float64 `yaml:"negative"`
}

// FileNameDTO holds file name tier weights.
type FileNameDTO struct {
	ExactMatch      *float64 `yaml:"exactMatch"`
	CaseInsensitive *float64 `yaml:"caseInsensitive"`
	PartialMatch    *float64 `yaml:"partialMatch"`
	RegexMatch      *float64 `yaml:"regexMatch"`
}

// MentionDTO holds per-mention weights.
type MentionDTO struct {
	PerMention  *float64 `yaml:"perMention"`
	MaxMentions *int     `yaml:"maxMentions"`
}

// ExportsDTO holds export hint weights.
type ExportsDTO struct {
	Default *float64 `yaml:"default"`
	Named   *float64 `yaml:"named"`
	Generic *float64 `yaml:"generic"`
}

// TargetDTO holds post-load bonus weights.
type TargetDTO struct {
	ExactName   *float64 `yaml:"exactName"`
	PatternName *float64 `yaml:"patternName"`
	MethodMatch *float64 `yaml:"methodMatch"`
}

// RecencyDTO shapes the recency bonus.
type RecencyDTO struct {
	MaxBonus      *float64 `yaml:"maxBonus"`
	HalfLifeHours *float64 `yaml:"halfLifeHours"`
}

// FeedbackDTO controls the history feedback bonus.
type FeedbackDTO struct {
	Enabled *bool    `yaml:"enabled"`
	Weight  *float64 `yaml:"weight"`
}

// SecurityDTO holds the denylist. A given list replaces the default.
type SecurityDTO struct {
	BlockedTokens []string `yaml:"blockedTokens"`
}

// LanguageDTO holds per-language overrides.
type LanguageDTO struct {
	Parser *ParserDTO `yaml:"parser"`
}

// ParserDTO holds parser limits.
type ParserDTO struct {
	MaxFileSize *int64 `yaml:"maxFileSize"`
}

// CacheDTO controls the resolution cache.
type CacheDTO struct {
	Enabled       *bool   `yaml:"enabled"`
	File          *string `yaml:"file"`
	TTL           *string `yaml:"ttl"`
	MemoryEntries *int    `yaml:"memoryEntries"`
	MaxModules    *int    `yaml:"maxModules"`
}

// ExtractionDTO controls metadata extraction.
type ExtractionDTO struct {
	Timeout  *string             `yaml:"timeout"`
	Commands map[string][]string `yaml:"commands"`
}

// DiagnosticsDTO controls exhaustion reporting.
type DiagnosticsDTO struct {
	NearMisses *int `yaml:"nearMisses"`
}
