package server

import (
	stderrors "errors"
	"net/http"

	gferrors "github.com/fulmenhq/gofulmen/errors"

	apperrors "github.com/coinrelay/coinrelay/internal/errors"
)

// HandleError writes err as a JSON error envelope. Errors that are not
// already envelopes become INTERNAL_ERROR tagged with the request ID.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var envelope *gferrors.ErrorEnvelope
	if !stderrors.As(err, &envelope) || envelope == nil {
		envelope = apperrors.WrapInternal(r.Context(), err, "internal server error")
	}
	apperrors.RespondWithEnvelope(w, r, envelope)
}
