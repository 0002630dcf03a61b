// Package version exposes the build version of confirmvotes.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/rshade/confirmvotes/pkg/version.version=$(git describe --tags --always)"
var (
	version = "dev"
	commit  = ""
)

// GetVersion returns the release version, or "dev" for local builds.
func GetVersion() string {
	if commit == "" {
		return version
	}
	return version + " (" + commit + ")"
}
