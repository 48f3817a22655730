package upstream

import (
	"fmt"
	"net/http"
	"strings"
)

// Request describes one forwarding call. Build it with NewRequest; the fields
// are read-only once constructed.
type Request struct {
	path   string
	method string
	params Params
}

// NewRequest validates the method and normalizes the endpoint path.
// Only GET, POST and PATCH are forwarded.
func NewRequest(method, path string, params Params) (Request, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch:
	default:
		return Request{}, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return Request{}, fmt.Errorf("endpoint path is required")
	}

	return Request{
		path:   path,
		method: method,
		params: NewParams(params.Entries()...),
	}, nil
}

// Get is a shorthand for NewRequest(http.MethodGet, ...).
func Get(path string, params Params) (Request, error) {
	return NewRequest(http.MethodGet, path, params)
}

// Path returns the endpoint path without leading or trailing slashes.
func (r Request) Path() string { return r.path }

// Method returns the upper-case HTTP method.
func (r Request) Method() string { return r.method }

// Params returns a copy of the request parameters.
func (r Request) Params() Params { return NewParams(r.params.Entries()...) }

// HasBody reports whether parameters travel as a JSON body.
func (r Request) HasBody() bool {
	return r.method == http.MethodPost || r.method == http.MethodPatch
}
