package core

import (
	"net/url"
	"strings"
)

// OriginPolicy decides whether a handshake from origin may proceed.
type OriginPolicy func(origin string) bool

// AllowAll accepts every origin.
func AllowAll(string) bool { return true }

// AllowOrigins accepts only the listed scheme://host origins, compared
// case-insensitively. An empty list or a "*" entry yields AllowAll.
// Entries that do not parse as an origin are ignored.
func AllowOrigins(origins []string) OriginPolicy {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		trimmed := strings.TrimSpace(o)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			return AllowAll
		}
		if norm, ok := normalizeOrigin(trimmed); ok {
			allowed[norm] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		return AllowAll
	}
	return func(origin string) bool {
		norm, ok := normalizeOrigin(origin)
		if !ok {
			return false
		}
		_, exists := allowed[norm]
		return exists
	}
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
