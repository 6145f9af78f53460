package domain

import "regexp"

var canonicalUUID = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsValidUUID reports whether s is a canonical RFC 4122 uuid (versions 1-5).
func IsValidUUID(s string) bool {
	return canonicalUUID.MatchString(s)
}
