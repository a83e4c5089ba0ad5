package domain

// DiscoveryState is a step of a single discovery run.
type DiscoveryState int

// Discovery states. Resolved and Exhausted are terminal.
const (
	StateIdle DiscoveryState = iota
	StateCollectingCandidates
	StateRanking
	StateResolving
	StateResolved
	StateExhausted
)

func (s DiscoveryState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollectingCandidates:
		return "collecting-candidates"
	case StateRanking:
		return "ranking"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s DiscoveryState) Terminal() bool {
	return s == StateResolved || s == StateExhausted
}

// Resolution is the successful outcome of a discovery.
type Resolution struct {
	// Path is the absolute path of the resolving file.
	Path string `json:"path"`
	// RelativePath is the root-relative path, "/"-prefixed.
	RelativePath string `json:"relativePath,omitempty"`
	// Access says how to reach the export inside the file.
	Access Access `json:"access"`
	// Export is the matched export, nil for cache hits.
	Export *ExportEntry `json:"export,omitempty"`
	// Score is Breakdown.Total() for fresh resolutions and the stored score for cache hits.
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown,omitempty"`
	FromCache bool           `json:"fromCache"`
	// Aliases and BaseImport are import specifiers for the file, when known.
	Aliases    []string `json:"aliases,omitempty"`
	BaseImport string   `json:"baseImport,omitempty"`
	// SignatureHash is the cache key the resolution was stored under.
	SignatureHash string `json:"signatureHash"`
}
