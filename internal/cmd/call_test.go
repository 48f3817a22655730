package cmd

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinrelay/coinrelay/internal/upstream"
)

func TestParseParamFlags(t *testing.T) {
	params, err := parseParamFlags([]string{"limit=5", "currency=EUR", "limit=7"})
	require.NoError(t, err)
	assert.Equal(t, "limit=7&currency=EUR", params.Query())

	_, err = parseParamFlags([]string{"novalue"})
	require.Error(t, err)

	_, err = parseParamFlags([]string{"=x"})
	require.Error(t, err)
}

func TestBuildCallRequestMatchesRouteTable(t *testing.T) {
	params, err := parseParamFlags([]string{"period=24h"})
	require.NoError(t, err)

	req, err := buildCallRequest(http.MethodGet, "/coins/bitcoin/charts", params, false)
	require.NoError(t, err)
	assert.Equal(t, "coins/bitcoin/charts", req.Path())
	v, ok := req.Params().Get("period")
	require.True(t, ok)
	assert.Equal(t, "24h", v)
}

func TestBuildCallRequestAppliesValidation(t *testing.T) {
	_, err := buildCallRequest(http.MethodGet, "/wallet/balance", mustParams(t), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")

	_, err = buildCallRequest(http.MethodGet, "/nope", mustParams(t), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route")
}

func TestBuildCallRequestRaw(t *testing.T) {
	params, err := parseParamFlags([]string{"b=2", "a=1"})
	require.NoError(t, err)

	req, err := buildCallRequest(http.MethodPatch, "wallet/transactions", params, true)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, req.Method())
	assert.Equal(t, "b=2&a=1", req.Params().Query())
}

func TestRoutesCommandJSON(t *testing.T) {
	routesOutput = "json"
	t.Cleanup(func() { routesOutput = "table" })

	var out bytes.Buffer
	routesCmd.SetOut(&out)
	t.Cleanup(func() { routesCmd.SetOut(nil) })

	require.NoError(t, routesCmd.RunE(routesCmd, nil))
	assert.Contains(t, out.String(), "\"path\": \"/wallet/transactions\"")
}

func mustParams(t *testing.T, pairs ...string) upstream.Params {
	t.Helper()
	params, err := parseParamFlags(pairs)
	require.NoError(t, err)
	return params
}
