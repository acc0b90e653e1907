// Package buildinfo carries the version stamped into the binary.
package buildinfo

import (
	"log/slog"
	"runtime/debug"
)

// Version, Commit and Date are set at build time via -ldflags -X.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for window titles and logs.
// Without ldflags it falls back to the VCS revision the toolchain embedded.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return shortHash(Commit)
	}
	if rev := vcsRevision(); rev != "" {
		return shortHash(rev)
	}
	return "dev"
}

// Attr groups the build fields for structured logs.
func Attr() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("date", Date),
	)
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func shortHash(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
