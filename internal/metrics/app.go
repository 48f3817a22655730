// Package metrics emits the gateway's counters, gauges and histograms through
// the global telemetry system. Every helper is a no-op while telemetry is off.
package metrics

import (
	"time"

	"github.com/coinrelay/coinrelay/internal/observability"
)

// Gateway metric names
const (
	UpstreamRequestsTotal   = "upstream_requests_total"
	UpstreamRequestDuration = "upstream_request_duration_ms"
	QuotaDeniedTotal        = "quota_denied_total"
	QuotaUsed               = "quota_used"
	QuotaLimit              = "quota_limit"
	HealthCheckTotal        = "app_health_check_total"
	ServerStartTime         = "app_server_start_time_seconds"
)

func count(name string, labels map[string]string) {
	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Counter(name, 1, labels)
	}
}

func gauge(name string, value float64) {
	if sys := observability.TelemetrySystem; sys != nil {
		_ = sys.Gauge(name, value, nil)
	}
}

// RecordUpstreamCall records one forwarded call and its latency by outcome kind.
func RecordUpstreamCall(outcome string, duration time.Duration) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}
	labels := map[string]string{"outcome": outcome}
	_ = sys.Counter(UpstreamRequestsTotal, 1, labels)
	_ = sys.Histogram(UpstreamRequestDuration, duration, labels)
}

// RecordQuotaDenied counts a call rejected by the local quota.
func RecordQuotaDenied() {
	count(QuotaDeniedTotal, nil)
}

// SetQuotaUsed publishes the admitted calls in the current window.
func SetQuotaUsed(used int64) {
	gauge(QuotaUsed, float64(used))
}

// SetQuotaLimit publishes the configured limit.
func SetQuotaLimit(limit int64) {
	gauge(QuotaLimit, float64(limit))
}

// RecordHealthCheck counts a health check run by result.
func RecordHealthCheck(checkName string, healthy bool) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}
	count(HealthCheckTotal, map[string]string{
		"check":  checkName,
		"status": status,
	})
}

// SetServerStartTime records the server start time as a Unix timestamp.
func SetServerStartTime(timestamp int64) {
	gauge(ServerStartTime, float64(timestamp))
}
