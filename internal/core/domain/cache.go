package domain

import "time"

// CacheEntry is a memoized resolution keyed by signature hash.
type CacheEntry struct {
	Path      string  `json:"path"`
	Access    Access  `json:"access"`
	Score     float64 `json:"score"`
	MtimeMs   int64   `json:"mtimeMs"`
	ExpiresAt int64   `json:"expiresAt"`
}

// Expired reports whether the entry is past its expiry at now.
func (e CacheEntry) Expired(now time.Time) bool {
	return now.UnixMilli() >= e.ExpiresAt
}

// Valid reports whether the entry can be served: not expired, and recorded
// against the file's current mtime.
func (e CacheEntry) Valid(now time.Time, currentMtimeMs int64) bool {
	return !e.Expired(now) && e.MtimeMs == currentMtimeMs
}

// MtimeMs returns the modification time of t in milliseconds.
func MtimeMs(t time.Time) int64 {
	return t.UnixMilli()
}
