package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	errwrap "github.com/coinrelay/coinrelay/internal/errors"
	"github.com/coinrelay/coinrelay/internal/observability"
	"github.com/coinrelay/coinrelay/internal/output"
	"github.com/coinrelay/coinrelay/internal/routes"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

var (
	callMethod string
	callParams []string
	callOutput string
	callRaw    bool
)

var callCmd = &cobra.Command{
	Use:   "call <path>",
	Short: "Forward a single request upstream",
	Long: `Forward one request through a fresh gateway and print the result.

The path is matched against the route table (e.g. /coins or /coins/bitcoin)
so defaults and validation apply. Use --raw to send the path to the upstream
as-is with only the given --param values.

Examples:
  coinrelay call /coins --param limit=5
  coinrelay call /wallet/balance --param address=0xabc --param blockchain=ethereum
  coinrelay call --raw coins/bitcoin/charts --param period=24h`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(callOutput)
		if err != nil {
			return err
		}

		params, err := parseParamFlags(callParams)
		if err != nil {
			return err
		}

		req, err := buildCallRequest(strings.ToUpper(callMethod), args[0], params, callRaw)
		if err != nil {
			return errwrap.WrapInvalidInput(cmd.Context(), err, "invalid call")
		}

		cfg, err := loadConfig()
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Invalid configuration", err)
			return err
		}
		parts, err := newComponents(cfg)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Missing upstream credential",
				errwrap.WrapMissingCredential(cmd.Context(), err, "upstream API key not configured"))
			return err
		}

		result := parts.gateway.Forward(cmd.Context(), req)
		rendered, err := output.FormatOutcome(format, result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)

		if !result.OK() {
			return fmt.Errorf("%s: %s", result.Kind, result.Message)
		}
		return nil
	},
}

// parseParamFlags turns key=value pairs into ordered parameters. A repeated
// key keeps its first position and its last value.
func parseParamFlags(pairs []string) (upstream.Params, error) {
	var params upstream.Params
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return upstream.Params{}, fmt.Errorf("invalid --param %q (expected key=value)", pair)
		}
		params.Set(key, value)
	}
	return params, nil
}

// buildCallRequest resolves path against the route table unless raw is set.
func buildCallRequest(method, path string, params upstream.Params, raw bool) (upstream.Request, error) {
	if method == "" {
		method = http.MethodGet
	}
	if raw {
		return upstream.NewRequest(method, path, params)
	}

	route, vars, ok := routes.Match(method, path)
	if !ok {
		return upstream.Request{}, fmt.Errorf("no route for %s %s (see the routes command, or use --raw)", method, path)
	}

	query := url.Values{}
	for _, p := range params.Entries() {
		query.Set(p.Key, fmt.Sprint(p.Value))
	}
	return route.Build(query, func(name string) string { return vars[name] })
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVarP(&callMethod, "method", "X", http.MethodGet, "HTTP method (GET, POST, PATCH)")
	callCmd.Flags().StringArrayVar(&callParams, "param", nil, "query parameter as key=value (repeatable)")
	callCmd.Flags().StringVarP(&callOutput, "output", "o", "json", "output format (json, table, markdown)")
	callCmd.Flags().BoolVar(&callRaw, "raw", false, "send the path upstream without route matching")
}
