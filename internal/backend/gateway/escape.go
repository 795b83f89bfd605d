package gateway

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// EscapePath escapes an entity name for embedding in the backend's
// distinguished-name-like paths. This step is mandatory for every name: the
// backend does not reject an unescaped reserved character, it silently
// corrupts the resulting path.
func EscapePath(name string) string {
	return ldap.EscapeDN(name)
}

// EscapeFilterPattern escapes the literal fragments of a wildcard pattern
// for use inside a filter expression, leaving the wildcard characters ? and
// * intact so the backend still treats them as wildcards.
func EscapeFilterPattern(pattern string) string {
	var b strings.Builder
	start := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '*' || pattern[i] == '?' {
			b.WriteString(ldap.EscapeFilter(pattern[start:i]))
			b.WriteByte(pattern[i])
			start = i + 1
		}
	}
	b.WriteString(ldap.EscapeFilter(pattern[start:]))
	return b.String()
}
