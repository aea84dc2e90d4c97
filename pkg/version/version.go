// Package version exposes build metadata for the appconf binary.
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version string // Set via ldflags on release builds.

	Revision  = vcsRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version when one was stamped in, falling
// back to the VCS revision of the build.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

func vcsRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	dirty := false

	for _, s := range buildInfo.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 7 {
				rev = rev[:7]
			}

		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if dirty {
		return rev + "-dirty"
	}

	return rev
}
