package service

import (
	"sort"
	"strings"
)

// CanonicalSignature builds the cache key for a query: the endpoint name
// followed by its parameters with names sorted lexicographically. Two
// logically identical queries must produce byte-identical signatures, so
// callers pass already-normalized values (canonical enum casing, uppercased
// symbols) and empty values are dropped here.
func CanonicalSignature(endpoint string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if strings.TrimSpace(value) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, name := range names {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.TrimSpace(params[name]))
	}
	return b.String()
}
