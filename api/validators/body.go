package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/hsallam/matjar-pos/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes the request body into dst, rejecting unknown fields
// and oversized payloads, then runs struct validation. All failures come back
// as typed validation errors ready for the response writer.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, decodeMessage(err))
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validation misconfigured")
		}
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			details := make([]string, 0, len(fields))
			for _, f := range fields {
				details = append(details, fmt.Sprintf("%s failed %s", f.Field(), f.Tag()))
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "request validation failed").
				WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request validation failed")
	}
	return nil
}

func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("invalid value for field %q", typeErr.Field)
	case errors.As(err, &maxErr):
		return "request body too large"
	case errors.Is(err, io.EOF):
		return "request body is required"
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Sprintf("unknown field %s", field)
	default:
		return "invalid request body"
	}
}
