// Package outcome defines the normalized result of a forwarding call and the
// translation from raw upstream results into it.
package outcome

import (
	"encoding/json"
	"net/http"

	gferrors "github.com/fulmenhq/gofulmen/errors"

	apperrors "github.com/coinrelay/coinrelay/internal/errors"
)

// Kind classifies an Outcome.
type Kind string

const (
	KindSuccess          Kind = "success"
	KindQuotaExceeded    Kind = "quota_exceeded"
	KindUpstreamRejected Kind = "upstream_rejected"
	KindRateLimited      Kind = "rate_limited"
	KindTransportFailure Kind = "transport_failure"
)

// Fixed caller-facing messages.
const (
	QuotaExceededMessage = "Monthly request limit reached. Please try again next month."
	UnauthorizedMessage  = "Invalid API key or unauthorized access"
	RateLimitedMessage   = "Rate limit exceeded (5 requests per second). Please try again later."
)

// Outcome carries everything needed to write the local HTTP response.
// Body is set for KindSuccess only; Message is set for every other kind.
type Outcome struct {
	Kind           Kind
	StatusCode     int
	Body           json.RawMessage
	Message        string
	UpstreamStatus int
}

// QuotaExceeded is the outcome returned when the local quota denies a call.
func QuotaExceeded() Outcome {
	return Outcome{
		Kind:       KindQuotaExceeded,
		StatusCode: http.StatusTooManyRequests,
		Message:    QuotaExceededMessage,
	}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// ErrorCode returns the error envelope code for a failure outcome.
func (o Outcome) ErrorCode() string {
	switch o.Kind {
	case KindQuotaExceeded:
		return apperrors.CodeQuotaExceeded
	case KindUpstreamRejected:
		return apperrors.CodeUpstreamRejected
	case KindRateLimited:
		return apperrors.CodeUpstreamRateLimited
	case KindTransportFailure:
		return apperrors.CodeUpstreamTransport
	default:
		return ""
	}
}

// Envelope converts a failure outcome into an error envelope. It returns nil
// for successes.
func (o Outcome) Envelope() *gferrors.ErrorEnvelope {
	if o.OK() {
		return nil
	}

	envelope := gferrors.NewErrorEnvelope(o.ErrorCode(), o.Message)
	if o.UpstreamStatus > 0 {
		envelope = envelope.WithDetails(map[string]interface{}{
			"upstream_status": o.UpstreamStatus,
		})
	}

	severity := gferrors.SeverityMedium
	if o.Kind == KindTransportFailure {
		severity = gferrors.SeverityHigh
	}
	if updated, err := envelope.WithSeverity(severity); err == nil {
		envelope = updated
	}
	return envelope
}

// Write renders the outcome. Successes are written verbatim as JSON; failures
// go through the standard error envelope with the outcome's status code.
func (o Outcome) Write(w http.ResponseWriter, r *http.Request) {
	if !o.OK() {
		apperrors.RespondWithStatus(w, r, o.Envelope(), o.StatusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(o.StatusCode)
	_, _ = w.Write(o.Body)
}
