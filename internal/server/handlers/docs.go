package handlers

import (
	"net/http"
	"sync"

	apperrors "github.com/coinrelay/coinrelay/internal/errors"
	"github.com/coinrelay/coinrelay/internal/routes"
)

const apiTitle = "CoinStats API Gateway"

// DocsRoute describes one forwarded route.
type DocsRoute struct {
	Method     string      `json:"method"`
	Path       string      `json:"path"`
	Upstream   string      `json:"upstream"`
	Summary    string      `json:"summary"`
	Parameters []DocsParam `json:"parameters,omitempty"`
}

// DocsParam describes one query parameter.
type DocsParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// DocsResponse is the route index served at /docs.
type DocsResponse struct {
	Title   string      `json:"title"`
	Version string      `json:"version"`
	OpenAPI []string    `json:"openapi"`
	Routes  []DocsRoute `json:"routes"`
}

// DocsHandler serves an index of the forwarded routes.
func DocsHandler(table []routes.Route) http.HandlerFunc {
	index := make([]DocsRoute, 0, len(table))
	for _, r := range table {
		entry := DocsRoute{
			Method:   r.Method,
			Path:     r.Path,
			Upstream: "/" + r.Upstream,
			Summary:  r.Summary,
		}
		for _, p := range r.Params {
			entry.Parameters = append(entry.Parameters, DocsParam{
				Name:        p.Name,
				Type:        p.Kind.String(),
				Required:    p.Required,
				Default:     p.Default,
				Description: p.Description,
			})
		}
		index = append(index, entry)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, DocsResponse{
			Title:   apiTitle,
			Version: AppVersion,
			OpenAPI: []string{"/openapi.json", "/openapi.yaml"},
			Routes:  index,
		})
	}
}

// OpenAPIJSONHandler serves the OpenAPI document as JSON.
func OpenAPIJSONHandler(table []routes.Route) http.HandlerFunc {
	return openAPIHandler(table, "application/json", routes.Document.JSON)
}

// OpenAPIYAMLHandler serves the OpenAPI document as YAML.
func OpenAPIYAMLHandler(table []routes.Route) http.HandlerFunc {
	return openAPIHandler(table, "application/yaml", routes.Document.YAML)
}

func openAPIHandler(table []routes.Route, contentType string, render func(routes.Document) ([]byte, error)) http.HandlerFunc {
	var (
		once sync.Once
		body []byte
		err  error
	)
	return func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() {
			body, err = render(routes.OpenAPI(apiTitle, AppVersion, table))
		})
		if err != nil {
			respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "failed to render OpenAPI document"))
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
