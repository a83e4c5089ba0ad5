// Package build holds build-time information.
package build

// Version and Commit default to development values and are overwritten by linker flags.
var (
	Version = "dev"
	Commit  = "none"
)
