// Package routes declares the local API surface and how each route maps onto
// an upstream endpoint.
package routes

import (
	"net/http"
	"net/url"
	"strings"
)

// Table lists every forwarded route in registration order.
var Table = []Route{
	{
		Name:     "list-coins",
		Method:   http.MethodGet,
		Path:     "/coins",
		Upstream: "coins",
		Summary:  "Get a list of all cryptocurrencies with market data",
		Params: []ParamSpec{
			{Name: "skip", Kind: KindInt, Default: 0, Description: "Number of items to skip"},
			{Name: "limit", Kind: KindInt, Default: 20, Description: "Number of items to return"},
			{Name: "currency", Default: "USD", Description: "Currency for prices"},
		},
	},
	{
		Name:     "average-price",
		Method:   http.MethodGet,
		Path:     "/coins/price/avg",
		Upstream: "coins/price/avg",
		Summary:  "Get the average price of a coin",
		Params: []ParamSpec{
			{Name: "coin_id", Key: "coinId", Description: "Coin ID (e.g., bitcoin)"},
			{Name: "currency", Default: "USD", Description: "Currency for prices"},
		},
	},
	{
		Name:     "exchange-price",
		Method:   http.MethodGet,
		Path:     "/coins/price/exchange",
		Upstream: "coins/price/exchange",
		Summary:  "Get the price of a coin on a specific exchange",
		Params: []ParamSpec{
			{Name: "coin_id", Key: "coinId", Description: "Coin ID (e.g., bitcoin)"},
			{Name: "exchange_id", Key: "exchangeId", Description: "Exchange ID (e.g., binance)"},
			{Name: "currency", Default: "USD", Description: "Currency for prices"},
		},
	},
	{
		Name:     "get-coin",
		Method:   http.MethodGet,
		Path:     "/coins/{coinId}",
		Upstream: "coins/{coinId}",
		Summary:  "Get detailed information about a specific cryptocurrency",
		Params: []ParamSpec{
			{Name: "currency", Default: "USD", Description: "Currency for prices"},
		},
	},
	{
		Name:     "coin-charts",
		Method:   http.MethodGet,
		Path:     "/coins/{coinId}/charts",
		Upstream: "coins/{coinId}/charts",
		Summary:  "Get historical chart data for a coin",
		Params: []ParamSpec{
			{Name: "period", Default: "1m", Description: "Chart period (24h, 1w, 1m, 3m, 6m, 1y, all)"},
			{Name: "currency", Default: "USD", Description: "Currency for prices"},
		},
	},
	{
		Name:     "ticker-exchanges",
		Method:   http.MethodGet,
		Path:     "/tickers/exchanges",
		Upstream: "tickers/exchanges",
		Summary:  "Get exchange tickers",
		Params: []ParamSpec{
			{Name: "skip", Kind: KindInt, Default: 0, Description: "Number of items to skip"},
			{Name: "limit", Kind: KindInt, Default: 20, Description: "Number of items to return"},
			{Name: "exchange", Description: "Exchange ID (e.g., binance)"},
		},
	},
	{
		Name:     "ticker-markets",
		Method:   http.MethodGet,
		Path:     "/tickers/markets",
		Upstream: "tickers/markets",
		Summary:  "Get market tickers",
		Params: []ParamSpec{
			{Name: "skip", Kind: KindInt, Default: 0, Description: "Number of items to skip"},
			{Name: "limit", Kind: KindInt, Default: 20, Description: "Number of items to return"},
			{Name: "pair", Description: "Trading pair (e.g., BTC-USDT)"},
			{Name: "exchange", Description: "Exchange ID (e.g., binance)"},
		},
	},
	{
		Name:     "fiats",
		Method:   http.MethodGet,
		Path:     "/fiats",
		Upstream: "fiats",
		Summary:  "Get the list of supported fiat currencies",
	},
	{
		Name:     "markets",
		Method:   http.MethodGet,
		Path:     "/markets",
		Upstream: "markets",
		Summary:  "Get global market data",
	},
	{
		Name:     "currencies",
		Method:   http.MethodGet,
		Path:     "/currencies",
		Upstream: "currencies",
		Summary:  "Get the list of supported currencies",
	},
	{
		Name:     "news-sources",
		Method:   http.MethodGet,
		Path:     "/news/sources",
		Upstream: "news/sources",
		Summary:  "Get the list of news sources",
	},
	{
		Name:     "news",
		Method:   http.MethodGet,
		Path:     "/news",
		Upstream: "news",
		Summary:  "Get cryptocurrency news",
		Params: []ParamSpec{
			{Name: "skip", Kind: KindInt, Default: 0, Description: "Number of items to skip"},
			{Name: "limit", Kind: KindInt, Default: 20, Description: "Number of items to return"},
			{Name: "filter", Description: "Filter news by source, coin, or category"},
		},
	},
	{
		Name:     "news-by-type",
		Method:   http.MethodGet,
		Path:     "/news/type/{type}",
		Upstream: "news/type/{type}",
		Summary:  "Get news of a given type (handpicked, trending, latest, bullish, bearish)",
		Params: []ParamSpec{
			{Name: "skip", Kind: KindInt, Default: 0, Description: "Number of items to skip"},
			{Name: "limit", Kind: KindInt, Default: 20, Description: "Number of items to return"},
		},
	},
	{
		Name:     "news-item",
		Method:   http.MethodGet,
		Path:     "/news/{newsId}",
		Upstream: "news/{newsId}",
		Summary:  "Get a single news article",
	},
	{
		Name:     "wallet-blockchains",
		Method:   http.MethodGet,
		Path:     "/wallet/blockchains",
		Upstream: "wallet/blockchains",
		Summary:  "Get the list of supported blockchains",
	},
	{
		Name:     "wallet-balance",
		Method:   http.MethodGet,
		Path:     "/wallet/balance",
		Upstream: "wallet/balance",
		Summary:  "Get the balance of a wallet on one blockchain",
		Params: []ParamSpec{
			{Name: "address", Required: true, Description: "Wallet address"},
			{Name: "blockchain", Required: true, Description: "Blockchain (e.g., ethereum, bitcoin)"},
		},
	},
	{
		Name:     "wallet-balances",
		Method:   http.MethodGet,
		Path:     "/wallet/balances",
		Upstream: "wallet/balances",
		Summary:  "Get the balances of a wallet across networks",
		Params: []ParamSpec{
			{Name: "address", Required: true, Description: "Wallet address"},
			{Name: "networks", Default: "all", Description: "Networks to include (comma-separated or 'all')"},
		},
	},
	{
		Name:     "wallet-transactions",
		Method:   http.MethodGet,
		Path:     "/wallet/transactions",
		Upstream: "wallet/transactions",
		Summary:  "Get the transactions of a wallet",
		Params: []ParamSpec{
			{Name: "address", Required: true, Description: "Wallet address"},
			{Name: "blockchain", Required: true, Description: "Blockchain (e.g., ethereum, bitcoin)"},
			{Name: "skip", Kind: KindInt, Default: 0, Description: "Number of items to skip"},
			{Name: "limit", Kind: KindInt, Default: 20, Description: "Number of items to return"},
		},
	},
	{
		Name:     "wallet-transactions-sync",
		Method:   http.MethodPatch,
		Path:     "/wallet/transactions",
		Upstream: "wallet/transactions",
		Summary:  "Start a transaction sync for a wallet",
		Params: []ParamSpec{
			{Name: "address", Required: true, Description: "Wallet address"},
			{Name: "blockchain", Required: true, Description: "Blockchain (e.g., ethereum, bitcoin)"},
		},
	},
}

// Find returns the route registered for method and chi path pattern.
func Find(method, path string) (Route, bool) {
	for _, r := range Table {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Match finds the route whose path template matches a concrete path and
// returns the extracted path variables, unescaped.
func Match(method, path string) (Route, map[string]string, bool) {
	segments := splitPath(path)
	for _, r := range Table {
		if r.Method != method {
			continue
		}
		if vars, ok := matchTemplate(splitPath(r.Path), segments); ok {
			return r, vars, true
		}
	}
	return Route{}, nil, false
}

func matchTemplate(template, segments []string) (map[string]string, bool) {
	if len(template) != len(segments) {
		return nil, false
	}
	vars := map[string]string{}
	for i, part := range template {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			value := segments[i]
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}
			vars[part[1:len(part)-1]] = value
			continue
		}
		if part != segments[i] {
			return nil, false
		}
	}
	return vars, true
}

func splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
