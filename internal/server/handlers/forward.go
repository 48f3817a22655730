package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/coinrelay/coinrelay/internal/errors"
	"github.com/coinrelay/coinrelay/internal/outcome"
	"github.com/coinrelay/coinrelay/internal/routes"
	"github.com/coinrelay/coinrelay/internal/upstream"
)

// Forwarder sends one request upstream and reports the outcome.
type Forwarder interface {
	Forward(ctx context.Context, req upstream.Request) outcome.Outcome
}

// ForwardHandler validates the inbound request against the route and
// forwards it. Invalid parameters are rejected before any upstream call.
func ForwardHandler(fw Forwarder, route routes.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := route.Build(r.URL.Query(), func(name string) string {
			return pathParam(r, name)
		})
		if err != nil {
			respondWithError(w, r, validationEnvelope(err))
			return
		}

		fw.Forward(r.Context(), req).Write(w, r)
	}
}

// pathParam returns a decoded path variable. chi matches against RawPath when
// the request carries one, so the value may still be escaped.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

func validationEnvelope(err error) error {
	var verr *routes.ValidationError
	if errors.As(err, &verr) {
		return apperrors.NewValidationError(verr.Error()).WithDetails(map[string]interface{}{
			"param":  verr.Param,
			"reason": verr.Reason,
		})
	}
	return apperrors.NewInvalidInputError(err.Error())
}
