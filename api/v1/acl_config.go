package v1

import "github.com/jimui/biblioteca/util"

var authenticationAllowlistPrefixes = []string{
	"/api/v1/signup",
	"/api/v1/signin",
}

// isUnauthorizeAllowed returns whether the path is exempted from authentication.
func isUnauthorizeAllowed(path string) bool {
	return util.HasPrefixes(path, authenticationAllowlistPrefixes...)
}
