package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coinrelay/coinrelay/internal/config"
	"github.com/coinrelay/coinrelay/internal/credentials"
	"github.com/coinrelay/coinrelay/internal/observability"
	"github.com/coinrelay/coinrelay/internal/outcome"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

var (
	doctorOffline bool
	doctorTimeout time.Duration
)

// doctorProbeEndpoint is a small upstream listing used for the connectivity check.
const doctorProbeEndpoint = "fiats"

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long: `Run diagnostic checks on configuration, credentials and upstream connectivity.

The connectivity check makes one real upstream call, which counts against the
upstream account's credits. Use --offline to skip it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := observability.CLILogger
		identity := GetAppIdentity()
		bannerName := "doctor"
		if identity != nil && identity.BinaryName != "" {
			bannerName = identity.BinaryName + " doctor"
		}
		log.Info("=== " + bannerName + " ===")
		log.Info("")

		allChecks := true
		totalChecks := 5

		// Check 1: runtime and Fulmen libraries
		version := crucible.GetVersion()
		log.Info(fmt.Sprintf("[1/%d] Checking runtime... ✅ %s %s/%s (gofulmen %s)", totalChecks, runtime.Version(), runtime.GOOS, runtime.GOARCH, version.Gofulmen),
			zap.String("go_version", runtime.Version()),
			zap.String("crucible_version", version.Crucible))

		// Check 2: configuration
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			log.Error(fmt.Sprintf("[2/%d] Checking configuration... ❌ %v", totalChecks, cfgErr))
			log.Warn("⚠️  Remaining checks skipped.")
			return cfgErr
		}
		log.Info(fmt.Sprintf("[2/%d] Checking configuration... ✅ quota %d per %s", totalChecks, cfg.Quota.Limit, cfg.Quota.ResetWindow),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.Float64("pace_rps", cfg.Upstream.PaceRPS))

		// Check 3: credentials
		creds, credErr := credentials.Load(cfg.Upstream.APIKey)
		if credErr != nil {
			log.Error(fmt.Sprintf("[3/%d] Checking credentials... ❌ %v", totalChecks, credErr))
			log.Info(fmt.Sprintf("       Set %s in the environment or a .env file, or upstream.api_key in config.", credentials.EnvAPIKey))
			allChecks = false
		} else {
			log.Info(fmt.Sprintf("[3/%d] Checking credentials... ✅ %s", totalChecks, creds))
		}

		// Check 4: exemptions
		log.Info(fmt.Sprintf("[4/%d] Checking quota exemptions... ✅ %d prefixes", totalChecks, len(cfg.Quota.ExemptPrefixes)),
			zap.Strings("exempt_prefixes", cfg.Quota.ExemptPrefixes))

		// Check 5: upstream connectivity
		switch {
		case doctorOffline:
			log.Info(fmt.Sprintf("[5/%d] Checking upstream connectivity... skipped (--offline)", totalChecks))
		case credErr != nil:
			log.Warn(fmt.Sprintf("[5/%d] Checking upstream connectivity... ⚠️  skipped (no credentials)", totalChecks))
		default:
			result := probeUpstream(cmd.Context(), cfg, creds)
			if result.OK() {
				log.Info(fmt.Sprintf("[5/%d] Checking upstream connectivity... ✅ %s reachable", totalChecks, cfg.Upstream.BaseURL))
			} else {
				log.Error(fmt.Sprintf("[5/%d] Checking upstream connectivity... ❌ %s", totalChecks, result.Message),
					zap.String("outcome", string(result.Kind)),
					zap.Int("status", result.StatusCode))
				allChecks = false
			}
		}

		log.Info("")
		if !allChecks {
			log.Warn("⚠️  Some checks failed. Review the output above for details.")
			return fmt.Errorf("doctor found problems")
		}
		log.Info("✅ All checks passed!")
		return nil
	},
}

// probeUpstream calls the upstream directly, bypassing the local quota.
func probeUpstream(ctx context.Context, cfg *config.Config, creds credentials.Credentials) outcome.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	client := upstream.NewClient(cfg.Upstream.BaseURL, creds.APIKey)
	req, err := upstream.Get(doctorProbeEndpoint, upstream.Params{})
	if err != nil {
		return outcome.Translate(nil, err)
	}
	return outcome.Translate(client.Call(ctx, req))
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "skip the upstream connectivity check")
	doctorCmd.Flags().DurationVar(&doctorTimeout, "timeout", 10*time.Second, "timeout for the upstream connectivity check")
}
