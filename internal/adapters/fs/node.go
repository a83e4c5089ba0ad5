package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/seek/internal/core/ports"
)

// WalkerNodeID is the unique identifier for the file walker Graft node.
const WalkerNodeID graft.ID = "adapter.fs.walker"

func init() {
	graft.Register(graft.Node[ports.FileWalker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileWalker, error) {
			return NewWalker(), nil
		},
	})
}
