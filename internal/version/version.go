// Package version provides build information for the inventory server.
// Values are set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/mtg-inventory/internal/version.Version=v1.2.3 \
//	  -X github.com/ramonehamilton/mtg-inventory/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the short git revision the binary was built from.
	Commit = "unknown"
)

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// String returns "version (commit)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
