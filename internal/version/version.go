// Package version holds build metadata injected with -ldflags.
package version

var (
	// Version is the release version.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = ""
	// BuildDate is the build timestamp.
	BuildDate = ""
)
