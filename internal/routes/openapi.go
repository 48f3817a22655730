package routes

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a minimal OpenAPI 3 document.
type Document struct {
	OpenAPI string              `json:"openapi" yaml:"openapi"`
	Info    Info                `json:"info" yaml:"info"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// Info describes the API.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

// Operation documents one route.
type Operation struct {
	OperationID string              `json:"operationId" yaml:"operationId"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

// Parameter documents a path or query parameter.
type Parameter struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      Schema `json:"schema" yaml:"schema"`
}

// Schema is the parameter value schema.
type Schema struct {
	Type    string `json:"type" yaml:"type"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`
}

// Response documents a status code.
type Response struct {
	Description string `json:"description" yaml:"description"`
}

var standardResponses = map[string]Response{
	"200": {Description: "Upstream response passed through unchanged"},
	"400": {Description: "Invalid parameters or upstream bad request"},
	"401": {Description: "Upstream rejected the API key"},
	"429": {Description: "Monthly quota reached or upstream rate limit (5 requests per second) exceeded"},
	"500": {Description: "Connection error reaching the upstream"},
}

// OpenAPI builds the document for the given routes.
func OpenAPI(title, version string, table []Route) Document {
	doc := Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       title,
			Description: "Cryptocurrency data, news, and wallet information forwarded from CoinStats",
			Version:     version,
		},
		Paths: make(map[string]PathItem, len(table)),
	}

	for _, r := range table {
		item, ok := doc.Paths[r.Path]
		if !ok {
			item = PathItem{}
			doc.Paths[r.Path] = item
		}

		op := Operation{
			OperationID: r.Name,
			Summary:     r.Summary,
			Responses:   standardResponses,
		}
		for _, name := range r.PathVars() {
			op.Parameters = append(op.Parameters, Parameter{
				Name:     name,
				In:       "path",
				Required: true,
				Schema:   Schema{Type: "string"},
			})
		}
		for _, p := range r.Params {
			op.Parameters = append(op.Parameters, Parameter{
				Name:        p.Name,
				In:          "query",
				Required:    p.Required,
				Description: p.Description,
				Schema:      Schema{Type: p.Kind.String(), Default: p.Default},
			})
		}
		item[strings.ToLower(r.Method)] = op
	}

	return doc
}

// JSON renders the document as indented JSON.
func (d Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML renders the document as YAML.
func (d Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}
