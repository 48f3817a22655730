package routes

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/coinrelay/coinrelay/internal/upstream"
)

// Kind is the value type of a query parameter.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "integer"
	}
	return "string"
}

// ParamSpec describes one query parameter of a local route.
//
// Name is the local query name and Key the upstream name (Name when empty).
// A nil Default makes the parameter optional: it is omitted upstream when the
// caller leaves it out. An empty optional string counts as left out.
type ParamSpec struct {
	Name        string
	Key         string
	Kind        Kind
	Default     any
	Required    bool
	Description string
}

// UpstreamKey returns the name sent upstream.
func (p ParamSpec) UpstreamKey() string {
	if p.Key != "" {
		return p.Key
	}
	return p.Name
}

// Route maps a local endpoint onto an upstream endpoint.
type Route struct {
	Name     string
	Method   string
	Path     string
	Upstream string
	Summary  string
	Params   []ParamSpec
}

// ValidationError reports a bad or missing caller parameter.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

var pathVarPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// PathVars returns the names of the path variables in Path.
func (r Route) PathVars() []string {
	matches := pathVarPattern.FindAllStringSubmatch(r.Path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Build validates the caller's query and path variables and assembles the
// upstream request. Parameters are added in declaration order.
func (r Route) Build(query url.Values, pathVar func(name string) string) (upstream.Request, error) {
	endpoint := r.Upstream
	for _, name := range r.PathVars() {
		value := ""
		if pathVar != nil {
			value = strings.TrimSpace(pathVar(name))
		}
		if value == "" {
			return upstream.Request{}, &ValidationError{Param: name, Reason: "path value is required"}
		}
		endpoint = strings.ReplaceAll(endpoint, "{"+name+"}", url.PathEscape(value))
	}

	var params upstream.Params
	for _, spec := range r.Params {
		raw, present := lookup(query, spec.Name)
		if present && spec.Kind == KindString && !spec.Required && strings.TrimSpace(raw) == "" {
			present = false
		}
		if !present {
			if spec.Required {
				return upstream.Request{}, &ValidationError{Param: spec.Name, Reason: "field required"}
			}
			if spec.Default != nil {
				params.Set(spec.UpstreamKey(), spec.Default)
			}
			continue
		}

		value, err := spec.parse(raw)
		if err != nil {
			return upstream.Request{}, err
		}
		params.Set(spec.UpstreamKey(), value)
	}

	return upstream.NewRequest(r.Method, endpoint, params)
}

func (p ParamSpec) parse(raw string) (any, error) {
	if p.Kind != KindInt {
		return raw, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, &ValidationError{Param: p.Name, Reason: "value is not a valid integer"}
	}
	return n, nil
}

func lookup(query url.Values, name string) (string, bool) {
	values, ok := query[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
