package routes

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustFind(t *testing.T, method, path string) Route {
	t.Helper()
	r, ok := Find(method, path)
	require.True(t, ok, "route %s %s", method, path)
	return r
}

func vars(m map[string]string) func(string) string {
	return func(name string) string { return m[name] }
}

func TestBuildAppliesDefaultsInOrder(t *testing.T) {
	r := mustFind(t, http.MethodGet, "/coins")

	req, err := r.Build(url.Values{"limit": {"5"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "coins", req.Path())
	assert.Equal(t, "skip=0&limit=5&currency=USD", req.Params().Query())

	limit, _ := req.Params().Get("limit")
	assert.Equal(t, 5, limit)
}

func TestBuildRenamesUpstreamKeysAndOmitsOptional(t *testing.T) {
	r := mustFind(t, http.MethodGet, "/coins/price/exchange")

	req, err := r.Build(url.Values{"coin_id": {"bitcoin"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "coinId=bitcoin&currency=USD", req.Params().Query())

	_, ok := req.Params().Get("exchangeId")
	assert.False(t, ok)
}

func TestBuildTreatsEmptyOptionalAsAbsent(t *testing.T) {
	r := mustFind(t, http.MethodGet, "/coins/price/exchange")

	req, err := r.Build(url.Values{
		"coin_id":     {"bitcoin"},
		"exchange_id": {""},
		"currency":    {"  "},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "coinId=bitcoin&currency=USD", req.Params().Query())

	avg := mustFind(t, http.MethodGet, "/coins/price/avg")
	req, err = avg.Build(url.Values{"coin_id": {""}, "currency": {""}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "currency=USD", req.Params().Query())
}

func TestBuildRequiredParams(t *testing.T) {
	r := mustFind(t, http.MethodGet, "/wallet/balance")

	_, err := r.Build(url.Values{"address": {"0xabc"}}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "blockchain", verr.Param)
	assert.Equal(t, "field required", verr.Reason)

	req, err := r.Build(url.Values{"address": {"0xabc"}, "blockchain": {"ethereum"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "address=0xabc&blockchain=ethereum", req.Params().Query())
}

func TestBuildRejectsNonInteger(t *testing.T) {
	r := mustFind(t, http.MethodGet, "/news")

	_, err := r.Build(url.Values{"skip": {"abc"}}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "skip", verr.Param)
}

func TestBuildSubstitutesEscapedPathVars(t *testing.T) {
	r := mustFind(t, http.MethodGet, "/coins/{coinId}/charts")

	req, err := r.Build(url.Values{}, vars(map[string]string{"coinId": "wrapped bitcoin"}))
	require.NoError(t, err)
	assert.Equal(t, "coins/wrapped%20bitcoin/charts", req.Path())
	assert.Equal(t, "period=1m&currency=USD", req.Params().Query())

	_, err = r.Build(url.Values{}, vars(nil))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "coinId", verr.Param)
}

func TestBuildPatchCarriesBody(t *testing.T) {
	r := mustFind(t, http.MethodPatch, "/wallet/transactions")

	req, err := r.Build(url.Values{"address": {"0xabc"}, "blockchain": {"ethereum"}}, nil)
	require.NoError(t, err)
	assert.True(t, req.HasBody())
	assert.Equal(t, http.MethodPatch, req.Method())
}

func TestTableRoutesAreUnique(t *testing.T) {
	seenNames := map[string]bool{}
	seenRoutes := map[string]bool{}
	for _, r := range Table {
		assert.False(t, seenNames[r.Name], "duplicate name %s", r.Name)
		seenNames[r.Name] = true

		key := r.Method + " " + r.Path
		assert.False(t, seenRoutes[key], "duplicate route %s", key)
		seenRoutes[key] = true

		assert.True(t, strings.HasPrefix(r.Path, "/"), r.Path)
		assert.False(t, strings.HasPrefix(r.Upstream, "/"), r.Upstream)
	}
}

func TestMatch(t *testing.T) {
	r, pathVars, ok := Match(http.MethodGet, "/coins/bitcoin")
	require.True(t, ok)
	assert.Equal(t, "get-coin", r.Name)
	assert.Equal(t, map[string]string{"coinId": "bitcoin"}, pathVars)

	r, _, ok = Match(http.MethodGet, "/coins/price/avg")
	require.True(t, ok)
	assert.Equal(t, "average-price", r.Name)

	r, pathVars, ok = Match(http.MethodGet, "coins/ethereum/charts/")
	require.True(t, ok)
	assert.Equal(t, "coin-charts", r.Name)
	assert.Equal(t, "ethereum", pathVars["coinId"])

	r, _, ok = Match(http.MethodPatch, "/wallet/transactions")
	require.True(t, ok)
	assert.Equal(t, "wallet-transactions-sync", r.Name)

	_, pathVars, ok = Match(http.MethodGet, "/news/a%2Fb")
	require.True(t, ok)
	assert.Equal(t, "a/b", pathVars["newsId"])

	_, _, ok = Match(http.MethodGet, "/nope")
	assert.False(t, ok)
	_, _, ok = Match(http.MethodPost, "/coins")
	assert.False(t, ok)
}

func TestOpenAPI(t *testing.T) {
	doc := OpenAPI("CoinStats API Gateway", "1.2.3", Table)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "1.2.3", doc.Info.Version)

	item, ok := doc.Paths["/wallet/transactions"]
	require.True(t, ok)
	assert.Contains(t, item, "get")
	assert.Contains(t, item, "patch")

	charts := doc.Paths["/coins/{coinId}/charts"]["get"]
	require.NotEmpty(t, charts.Parameters)
	assert.Equal(t, "coinId", charts.Parameters[0].Name)
	assert.Equal(t, "path", charts.Parameters[0].In)
	assert.True(t, charts.Parameters[0].Required)

	list := doc.Paths["/coins"]["get"]
	require.Len(t, list.Parameters, 3)
	assert.Equal(t, "integer", list.Parameters[0].Schema.Type)
	assert.Contains(t, list.Responses, "429")

	raw, err := doc.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "3.0.3", decoded["openapi"])

	rawYAML, err := doc.YAML()
	require.NoError(t, err)
	var decodedYAML map[string]any
	require.NoError(t, yaml.Unmarshal(rawYAML, &decodedYAML))
	assert.Contains(t, decodedYAML, "paths")
}
