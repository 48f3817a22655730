package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinrelay/coinrelay/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{
		Enabled: true,
		Emitter: collector,
	})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() {
		observability.TelemetrySystem = original
	})

	return collector
}

func TestGatewayMetrics(t *testing.T) {
	collector := setupTelemetry(t)

	RecordUpstreamCall("success", 25*time.Millisecond)
	RecordQuotaDenied()
	SetQuotaUsed(12)
	SetQuotaLimit(950000)
	RecordHealthCheck("credentials", true)
	RecordHealthCheck("telemetry", false)
	SetServerStartTime(time.Now().Unix())

	assert.Equal(t, 1, collector.CountMetricsByName(UpstreamRequestsTotal))
	assert.Equal(t, 1, collector.CountMetricsByName(UpstreamRequestDuration))
	assert.Equal(t, 1, collector.CountMetricsByName(QuotaDeniedTotal))
	assert.Equal(t, 1, collector.CountMetricsByName(QuotaUsed))
	assert.Equal(t, 1, collector.CountMetricsByName(QuotaLimit))
	assert.Equal(t, 2, collector.CountMetricsByName(HealthCheckTotal))
	assert.Equal(t, 1, collector.CountMetricsByName(ServerStartTime))
}

func TestErrorMetrics(t *testing.T) {
	collector := setupTelemetry(t)

	RecordError("QUOTA_EXCEEDED", http.StatusTooManyRequests)
	RecordErrorByEndpoint("/coins", "QUOTA_EXCEEDED")
	RecordPanic()

	assert.Equal(t, 1, collector.CountMetricsByName(ErrorsTotalName))
	assert.Equal(t, 1, collector.CountMetricsByName(ErrorsByEndpointName))
	assert.Equal(t, 1, collector.CountMetricsByName(PanicsTotalName))
}

func TestMetricsWithoutTelemetry(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() { observability.TelemetrySystem = original })

	assert.NotPanics(t, func() {
		RecordUpstreamCall("transport_failure", time.Second)
		RecordQuotaDenied()
		SetQuotaUsed(1)
		SetQuotaLimit(1)
		RecordHealthCheck("x", true)
		SetServerStartTime(0)
		RecordError("INTERNAL_ERROR", 500)
		RecordErrorByEndpoint("/", "INTERNAL_ERROR")
		RecordPanic()
	})
}
