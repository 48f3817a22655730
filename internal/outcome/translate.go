package outcome

import (
	"encoding/json"
	"net/http"

	"github.com/coinrelay/coinrelay/internal/upstream"
)

// maxDetailChars bounds how much of an unexpected upstream body is echoed.
const maxDetailChars = 200

// Translate maps a raw upstream result, or the error returned in its place,
// to exactly one Outcome. It has no state; equal inputs give equal outputs.
func Translate(res *upstream.Result, err error) Outcome {
	if err != nil || res == nil {
		return transportFailure(err)
	}

	switch res.StatusCode {
	case http.StatusOK:
		return Outcome{
			Kind:       KindSuccess,
			StatusCode: http.StatusOK,
			Body:       passthroughBody(res.Body),
		}
	case http.StatusBadRequest:
		return Outcome{
			Kind:           KindUpstreamRejected,
			StatusCode:     http.StatusBadRequest,
			Message:        "Bad Request: " + truncate(string(res.Body), maxDetailChars),
			UpstreamStatus: res.StatusCode,
		}
	case http.StatusUnauthorized:
		return Outcome{
			Kind:           KindUpstreamRejected,
			StatusCode:     http.StatusUnauthorized,
			Message:        UnauthorizedMessage,
			UpstreamStatus: res.StatusCode,
		}
	case http.StatusTooManyRequests:
		return Outcome{
			Kind:           KindRateLimited,
			StatusCode:     http.StatusTooManyRequests,
			Message:        RateLimitedMessage,
			UpstreamStatus: res.StatusCode,
		}
	default:
		return Outcome{
			Kind:           KindUpstreamRejected,
			StatusCode:     localStatus(res.StatusCode),
			Message:        "Unexpected Error: " + truncate(string(res.Body), maxDetailChars),
			UpstreamStatus: res.StatusCode,
		}
	}
}

func transportFailure(err error) Outcome {
	detail := "no response from upstream"
	if err != nil {
		detail = err.Error()
	}
	return Outcome{
		Kind:       KindTransportFailure,
		StatusCode: http.StatusInternalServerError,
		Message:    "Connection Error: " + detail,
	}
}

// passthroughBody keeps valid JSON untouched and quotes anything else so the
// local response is always valid JSON.
func passthroughBody(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

// localStatus guards against upstream codes net/http refuses to write.
func localStatus(status int) int {
	if status < 100 || status > 999 {
		return http.StatusBadGateway
	}
	return status
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
