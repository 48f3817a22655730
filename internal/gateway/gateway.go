// Package gateway composes quota admission, the upstream client and outcome
// translation into a single forwarding operation.
package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/coinrelay/coinrelay/internal/metrics"
	"github.com/coinrelay/coinrelay/internal/observability"
	"github.com/coinrelay/coinrelay/internal/outcome"
	"github.com/coinrelay/coinrelay/internal/quota"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

// Caller performs one upstream call.
type Caller interface {
	Call(ctx context.Context, req upstream.Request) (*upstream.Result, error)
}

// Gateway forwards calls upstream subject to the local quota.
type Gateway struct {
	tracker *quota.Tracker
	client  Caller
	exempt  quota.Exemptions
}

// New wires a gateway. A nil tracker gets the default limits.
func New(tracker *quota.Tracker, client Caller, exempt quota.Exemptions) *Gateway {
	if tracker == nil {
		tracker = quota.NewTracker()
	}
	return &Gateway{
		tracker: tracker,
		client:  client,
		exempt:  exempt,
	}
}

// Forward admits the call, forwards it, and translates the result. A denied
// call returns the quota-exceeded outcome without reaching the client.
// Calls on exempt paths (see Middleware) are forwarded without counting.
func (g *Gateway) Forward(ctx context.Context, req upstream.Request) outcome.Outcome {
	if !exempted(ctx) {
		if g.tracker.Admit() == quota.Denied {
			g.recordDenied(req.Path())
			return outcome.QuotaExceeded()
		}
	}
	metrics.SetQuotaUsed(g.tracker.Count())

	start := time.Now()
	res, err := g.client.Call(ctx, req)
	result := outcome.Translate(res, err)
	duration := time.Since(start)

	metrics.RecordUpstreamCall(string(result.Kind), duration)
	logForward(req, result, duration)

	return result
}

// Exempt reports whether an inbound path bypasses the quota.
func (g *Gateway) Exempt(path string) bool {
	return g.exempt.Match(path)
}

// Status returns the quota snapshot. It has no side effects.
func (g *Gateway) Status() quota.Snapshot {
	return g.tracker.Snapshot()
}

func (g *Gateway) recordDenied(path string) {
	metrics.RecordQuotaDenied()
	if observability.ServerLogger != nil {
		snap := g.tracker.Snapshot()
		observability.ServerLogger.Warn("Monthly request limit reached",
			zap.String("endpoint", path),
			zap.Int64("count", snap.Count),
			zap.Int64("limit", snap.Limit),
			zap.Time("reset_at", snap.ResetAt))
	}
}

func logForward(req upstream.Request, result outcome.Outcome, duration time.Duration) {
	logger := observability.ServerLogger
	if logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("method", req.Method()),
		zap.String("endpoint", req.Path()),
		zap.String("outcome", string(result.Kind)),
		zap.Int("status", result.StatusCode),
		zap.Duration("duration", duration),
	}

	switch result.Kind {
	case outcome.KindSuccess:
		logger.Debug("Upstream call completed", fields...)
	case outcome.KindTransportFailure:
		logger.Warn("Upstream call failed", append(fields, zap.String("error", result.Message))...)
	default:
		logger.Info("Upstream call rejected", append(fields, zap.Int("upstream_status", result.UpstreamStatus))...)
	}
}
