package engine

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/apivet/internal/spec"
)

// FilterEndpoints returns the endpoints whose id ("METHOD /path") matches
// the include patterns and none of the exclude patterns. Empty include
// means everything is included.
func FilterEndpoints(endpoints []spec.Endpoint, include, exclude []string) []spec.Endpoint {
	var out []spec.Endpoint
	for _, ep := range endpoints {
		id := ep.ID()
		if !matchesInclude(id, include) {
			continue
		}
		if matchesAny(id, exclude) {
			continue
		}
		out = append(out, ep)
	}
	return out
}

func matchesInclude(id string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(id, patterns)
}

// matchesAny checks if the endpoint id matches any of the given glob
// patterns. It uses doublestar for ** support and falls back to
// filepath.Match for simple patterns.
func matchesAny(id string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, id); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, id); err == nil && ok {
			return true
		}
	}
	return false
}
