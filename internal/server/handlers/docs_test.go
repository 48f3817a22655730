package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/coinrelay/coinrelay/internal/routes"
)

func TestDocsHandlerListsRoutes(t *testing.T) {
	rec := httptest.NewRecorder()
	DocsHandler(routes.Table)(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DocsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Routes, len(routes.Table))
	assert.Equal(t, "/coins", resp.Routes[0].Path)
	assert.Equal(t, "/coins", resp.Routes[0].Upstream)
	require.NotEmpty(t, resp.Routes[0].Parameters)
	assert.Equal(t, "integer", resp.Routes[0].Parameters[0].Type)
}

func TestOpenAPIJSONHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	OpenAPIJSONHandler(routes.Table)(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc routes.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Contains(t, doc.Paths, "/coins")
}

func TestOpenAPIYAMLHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	OpenAPIYAMLHandler(routes.Table)(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}
