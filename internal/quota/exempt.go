package quota

import "strings"

// DefaultExemptPrefixes lists inbound paths that are never counted.
var DefaultExemptPrefixes = []string{
	"/docs",
	"/openapi.json",
	"/openapi.yaml",
	"/redoc",
	"/favicon.ico",
	"/health",
	"/version",
	"/metrics",
	"/quota",
}

// Exemptions matches inbound paths that bypass the tracker. The root path is
// matched exactly; every other entry matches on path segment boundaries, so
// "/health" covers "/health/live" but not "/healthz".
type Exemptions struct {
	prefixes []string
}

// NewExemptions builds an exemption list. Empty entries are dropped and a
// missing leading slash is added.
func NewExemptions(prefixes ...string) Exemptions {
	clean := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" || p == "/" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		clean = append(clean, strings.TrimRight(p, "/"))
	}
	return Exemptions{prefixes: clean}
}

// DefaultExemptions returns the built-in exemption list.
func DefaultExemptions() Exemptions {
	return NewExemptions(DefaultExemptPrefixes...)
}

// Match reports whether path is exempt from quota counting.
func (e Exemptions) Match(path string) bool {
	if path == "" || path == "/" {
		return true
	}
	for _, prefix := range e.prefixes {
		if path == prefix {
			return true
		}
		if strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Prefixes returns a copy of the configured prefixes.
func (e Exemptions) Prefixes() []string {
	out := make([]string, len(e.prefixes))
	copy(out, e.prefixes)
	return out
}
