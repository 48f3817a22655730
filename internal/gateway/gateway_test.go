package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinrelay/coinrelay/internal/outcome"
	"github.com/coinrelay/coinrelay/internal/quota"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

type fakeCaller struct {
	calls  atomic.Int64
	result *upstream.Result
	err    error
}

func (f *fakeCaller) Call(_ context.Context, _ upstream.Request) (*upstream.Result, error) {
	f.calls.Add(1)
	return f.result, f.err
}

func okCaller() *fakeCaller {
	return &fakeCaller{result: &upstream.Result{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)}}
}

func mustGet(t *testing.T, path string) upstream.Request {
	t.Helper()
	req, err := upstream.Get(path, upstream.Params{})
	require.NoError(t, err)
	return req
}

func TestForwardCountsAndTranslates(t *testing.T) {
	caller := okCaller()
	tracker := quota.NewTracker(quota.WithLimit(10))
	gw := New(tracker, caller, quota.DefaultExemptions())

	out := gw.Forward(context.Background(), mustGet(t, "coins"))

	assert.Equal(t, outcome.KindSuccess, out.Kind)
	assert.JSONEq(t, `{"ok":true}`, string(out.Body))
	assert.Equal(t, int64(1), caller.calls.Load())
	assert.Equal(t, int64(1), gw.Status().Count)
}

func TestForwardDeniedNeverCallsUpstream(t *testing.T) {
	caller := okCaller()
	gw := New(quota.NewTracker(quota.WithLimit(1)), caller, quota.DefaultExemptions())

	require.True(t, gw.Forward(context.Background(), mustGet(t, "coins")).OK())
	out := gw.Forward(context.Background(), mustGet(t, "coins"))

	assert.Equal(t, outcome.KindQuotaExceeded, out.Kind)
	assert.Equal(t, http.StatusTooManyRequests, out.StatusCode)
	assert.Equal(t, outcome.QuotaExceededMessage, out.Message)
	assert.Equal(t, int64(1), caller.calls.Load())
	assert.Equal(t, int64(1), gw.Status().Count)
}

func TestForwardCountsFailedCalls(t *testing.T) {
	caller := &fakeCaller{err: errors.New("connection refused")}
	gw := New(quota.NewTracker(quota.WithLimit(5)), caller, quota.DefaultExemptions())

	out := gw.Forward(context.Background(), mustGet(t, "coins"))

	assert.Equal(t, outcome.KindTransportFailure, out.Kind)
	assert.Equal(t, http.StatusInternalServerError, out.StatusCode)
	assert.Equal(t, int64(1), gw.Status().Count)
}

func TestForwardSkipsAdmissionWhenExempt(t *testing.T) {
	caller := okCaller()
	gw := New(quota.NewTracker(quota.WithLimit(1)), caller, quota.DefaultExemptions())

	ctx := WithExemption(context.Background())
	gw.Forward(ctx, mustGet(t, "coins"))
	gw.Forward(ctx, mustGet(t, "coins"))

	assert.Equal(t, int64(2), caller.calls.Load())
	assert.Equal(t, int64(0), gw.Status().Count)
}

func TestNewDefaultsTracker(t *testing.T) {
	gw := New(nil, okCaller(), quota.DefaultExemptions())
	assert.Equal(t, int64(quota.DefaultLimit), gw.Status().Limit)
}

func TestMiddlewareCountsOnceWithForward(t *testing.T) {
	caller := okCaller()
	gw := New(quota.NewTracker(quota.WithLimit(10)), caller, quota.DefaultExemptions())

	handler := gw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gw.Forward(r.Context(), mustGet(t, "coins")).Write(w, r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coins", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), gw.Status().Count)
	assert.Equal(t, int64(1), caller.calls.Load())
}

func TestMiddlewareNeverCountsUnforwardedRequests(t *testing.T) {
	gw := New(quota.NewTracker(quota.WithLimit(1)), okCaller(), quota.DefaultExemptions())

	handler := gw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	for _, path := range []string{"/coins?limit=ten", "/unknown", "/coins/price/avg"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
	assert.Equal(t, int64(0), gw.Status().Count)
}

func TestMiddlewareMarksExemptPaths(t *testing.T) {
	gw := New(quota.NewTracker(quota.WithLimit(1)), okCaller(), quota.DefaultExemptions())
	handler := gw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, exempted(r.Context()), r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/", "/health/live", "/quota", "/docs", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	assert.Equal(t, int64(0), gw.Status().Count)
}

func TestMiddlewareExemptForwardIsNotCounted(t *testing.T) {
	caller := okCaller()
	gw := New(quota.NewTracker(quota.WithLimit(1)), caller, quota.NewExemptions("/fiats"))

	handler := gw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gw.Forward(r.Context(), mustGet(t, "fiats")).Write(w, r)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fiats", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, int64(3), caller.calls.Load())
	assert.Equal(t, int64(0), gw.Status().Count)
}

func TestConcurrentForwardCountsEachCall(t *testing.T) {
	caller := okCaller()
	gw := New(quota.NewTracker(quota.WithLimit(1000)), caller, quota.DefaultExemptions())
	req := mustGet(t, "coins")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gw.Forward(context.Background(), req)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), gw.Status().Count)
	assert.Equal(t, int64(100), caller.calls.Load())
}
