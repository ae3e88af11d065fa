// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X naitive/hub/internal/version.Version=1.0.0 \
//	                   -X naitive/hub/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X naitive/hub/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("%s (%s) built %s", Version, Commit, BuildDate)
}
