// Package fs provides file system adapters for walking source trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	"go.trai.ch/seek/internal/core/domain"
	"go.trai.ch/seek/internal/core/ports"
)

var _ ports.FileWalker = (*Walker)(nil)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root. Skipped directories are
// never entered, symlinks are not followed, and unreadable entries are
// passed over without aborting the walk.
func (w *Walker) WalkFiles(root string, opts domain.WalkOptions) iter.Seq[string] {
	skip := make(map[string]struct{}, len(opts.SkipDirs))
	for _, name := range opts.SkipDirs {
		skip[name] = struct{}{}
	}

	var gi *ignore.GitIgnore
	if opts.RespectGitignore {
		gi = loadGitignore(root)
	}

	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				if w.shouldSkipDir(d.Name(), skip) || ignored(gi, root, path, true) {
					return filepath.SkipDir
				}
				return nil
			}

			// Skip symlinks and other non-regular files
			if !d.Type().IsRegular() {
				return nil
			}

			if ignored(gi, root, path, false) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}

// shouldSkipDir reports whether a directory is excluded by name.
// Glob patterns in the skip list are honoured.
func (w *Walker) shouldSkipDir(name string, skip map[string]struct{}) bool {
	if _, ok := skip[name]; ok {
		return true
	}
	for pattern := range skip {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func ignored(gi *ignore.GitIgnore, root, path string, dir bool) bool {
	if gi == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		return gi.MatchesPath(rel) || gi.MatchesPath(rel+"/")
	}
	return gi.MatchesPath(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
