package loader

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/seek/internal/core/domain"
)

// Registry holds loaded modules for the life of the process. It is bounded
// and evicts in insertion order: lookups never refresh an entry, and
// replacing a path counts as a new insertion.
type Registry struct {
	handles *lru.Cache[string, *domain.ModuleHandle]
}

// NewRegistry creates a registry holding at most capacity modules.
// A non-positive capacity uses domain.MaxCachedModules.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = domain.MaxCachedModules
	}
	handles, err := lru.New[string, *domain.ModuleHandle](capacity)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Registry{handles: handles}
}

// Get returns the handle registered for path.
func (r *Registry) Get(path string) (*domain.ModuleHandle, bool) {
	return r.handles.Peek(path)
}

// Put registers h, evicting the oldest handle when the registry is full.
func (r *Registry) Put(h *domain.ModuleHandle) {
	if r.handles.Contains(h.Path) {
		r.handles.Remove(h.Path)
	}
	r.handles.Add(h.Path, h)
}

// Resize changes the capacity, evicting the oldest handles when shrinking.
// A non-positive capacity uses domain.MaxCachedModules.
func (r *Registry) Resize(capacity int) {
	if capacity <= 0 {
		capacity = domain.MaxCachedModules
	}
	r.handles.Resize(capacity)
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	return r.handles.Len()
}

// Paths returns the registered paths from oldest to newest.
func (r *Registry) Paths() []string {
	return r.handles.Keys()
}

// Purge drops every handle.
func (r *Registry) Purge() {
	r.handles.Purge()
}
