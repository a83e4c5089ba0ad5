package domain

import "path/filepath"

const (
	// SeekDirName is the name of the per-root working directory.
	SeekDirName = ".seek"

	// CacheFileName is the name of the persisted discovery cache file.
	CacheFileName = "discovery-cache.json"

	// ConfigFileName is the name of the optional per-root configuration file.
	ConfigFileName = "seek.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default cache file location relative to a root.
// It joins .seek and discovery-cache.json.
func DefaultCachePath() string {
	return filepath.Join(SeekDirName, CacheFileName)
}

// WalkOptions controls directory traversal.
type WalkOptions struct {
	// SkipDirs are directory names never descended into.
	SkipDirs []string
	// RespectGitignore drops paths matched by the root .gitignore.
	RespectGitignore bool
}

// WalkOptions returns the traversal options of c.
func (c Config) WalkOptions() WalkOptions {
	return WalkOptions{SkipDirs: c.SkipDirectories, RespectGitignore: c.RespectGitignore}
}
