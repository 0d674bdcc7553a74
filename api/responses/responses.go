// Package responses writes the cart API's JSON envelope. Every handler reply,
// success or failure, goes through here so clients can rely on one shape.
package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
	"github.com/hsallam/matjar-pos/pkg/logger"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// WriteSuccess emits a 200 envelope with the given payload.
func WriteSuccess(w http.ResponseWriter, message string, data any) {
	WriteStatus(w, http.StatusOK, message, data)
}

// WriteStatus emits a success envelope with an explicit HTTP status.
func WriteStatus(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WriteError maps a typed error to its HTTP status and emits a failure
// envelope. Untyped errors are logged and reported as internal.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(logg.WithField(ctx, "error_dump", pkgerrors.Dump(err)), typed.Message(), err)
		} else {
			logg.Warn(ctx, typed.Error())
		}
	}

	message := typed.Message()
	if message == "" {
		message = meta.PublicMessage
	}

	body := types.Envelope{
		Success: false,
		Message: message,
		Error:   string(typed.Code()),
	}
	if meta.DetailsAllowed && typed.Details() != nil {
		body.Data = typed.Details()
	}
	writeJSON(w, meta.HTTPStatus, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
