package ports

import (
	"iter"

	"go.trai.ch/seek/internal/core/domain"
)

// FileWalker enumerates the files under a root.
//
//go:generate go run go.uber.org/mock/mockgen -source=walker.go -destination=mocks/mock_walker.go -package=mocks
type FileWalker interface {
	// WalkFiles yields file paths under root, never descending into
	// directories whose name is in opts.SkipDirs.
	WalkFiles(root string, opts domain.WalkOptions) iter.Seq[string]
}
