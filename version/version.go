package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service version. It is also used as the schema version
// recorded in migration_history.
var Version = "0.1.0"

func GetCurrentVersion() string {
	return Version
}

// GetMinorVersion returns the minor version, e.g. "0.1" for "0.1.2".
func GetMinorVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return strings.Join(parts[:2], ".")
}

// IsVersionGreaterThan reports whether version > target.
func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) > 0
}

// IsVersionGreaterOrEqualThan reports whether version >= target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare("v"+version, "v"+target) >= 0
}
