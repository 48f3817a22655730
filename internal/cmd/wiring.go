package cmd

import (
	"github.com/coinrelay/coinrelay/internal/config"
	"github.com/coinrelay/coinrelay/internal/credentials"
	"github.com/coinrelay/coinrelay/internal/gateway"
	"github.com/coinrelay/coinrelay/internal/metrics"
	"github.com/coinrelay/coinrelay/internal/quota"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

// components are the long-lived pieces shared by serve, call and doctor.
type components struct {
	creds   credentials.Credentials
	tracker *quota.Tracker
	client  *upstream.Client
	gateway *gateway.Gateway
}

// newComponents resolves the API key and wires the gateway. It fails only
// when no credential can be found.
func newComponents(cfg *config.Config) (*components, error) {
	creds, err := credentials.Load(cfg.Upstream.APIKey)
	if err != nil {
		return nil, err
	}

	tracker := quota.NewTracker(
		quota.WithLimit(cfg.Quota.Limit),
		quota.WithResetWindow(cfg.Quota.ResetWindow),
	)
	metrics.SetQuotaLimit(tracker.Limit())

	client := upstream.NewClient(cfg.Upstream.BaseURL, creds.APIKey).
		WithPacing(cfg.Upstream.PaceRPS)

	exempt := quota.DefaultExemptions()
	if len(cfg.Quota.ExemptPrefixes) > 0 {
		exempt = quota.NewExemptions(cfg.Quota.ExemptPrefixes...)
	}

	return &components{
		creds:   creds,
		tracker: tracker,
		client:  client,
		gateway: gateway.New(tracker, client, exempt),
	}, nil
}
