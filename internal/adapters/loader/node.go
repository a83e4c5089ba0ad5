package loader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/seek/internal/core/domain"
)

// RegistryNodeID is the unique identifier for the module registry Graft node.
const RegistryNodeID graft.ID = "adapter.loader.registry"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Registry, error) {
			return NewRegistry(domain.MaxCachedModules), nil
		},
	})
}
