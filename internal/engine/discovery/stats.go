package discovery

import "sync/atomic"

// Stats counts the work done by an Engine since it was created.
type Stats struct {
	Traversals   int64
	FilesVisited int64
	Scored       int64
	Unsafe       int64
	CacheHits    int64
	CacheMisses  int64
}

type counters struct {
	traversals atomic.Int64
	visited    atomic.Int64
	scored     atomic.Int64
	unsafe     atomic.Int64
	hits       atomic.Int64
	misses     atomic.Int64
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Traversals:   e.stats.traversals.Load(),
		FilesVisited: e.stats.visited.Load(),
		Scored:       e.stats.scored.Load(),
		Unsafe:       e.stats.unsafe.Load(),
		CacheHits:    e.stats.hits.Load(),
		CacheMisses:  e.stats.misses.Load(),
	}
}
