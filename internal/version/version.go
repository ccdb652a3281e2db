// Package version holds the build version reported by the server.
package version

// Version is the released semver; DevVersion tracks the branch.
var (
	Version    = "0.1.0"
	DevVersion = "0.1.0"
)

// GetCurrentVersion returns the version string for the given mode.
func GetCurrentVersion(mode string) string {
	if mode == "prod" {
		return Version
	}
	return DevVersion
}
