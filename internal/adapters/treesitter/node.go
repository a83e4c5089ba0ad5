package treesitter

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/seek/internal/core/ports"
)

// NodeID is the unique identifier for the metadata extractor Graft node.
const NodeID graft.ID = "adapter.treesitter"

func init() {
	graft.Register(graft.Node[ports.MetadataExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MetadataExtractor, error) {
			return NewExtractor(), nil
		},
	})
}
