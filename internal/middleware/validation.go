package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"admin-dashboard/internal/api"
)

// MaxBodyBytes bounds every JSON request body
const MaxBodyBytes = 1 << 20

// ErrMalformedBody reports a request body that is not the expected JSON
var ErrMalformedBody = errors.New("malformed request body")

var validate = api.NewValidator()

// ValidateRequest validates a decoded request against its validate tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeJSON reads a JSON body into v. Syntax and type errors are wrapped
// in ErrMalformedBody.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return nil
}

// DecodeAndValidate decodes JSON request body and validates it
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := DecodeJSON(w, r, v); err != nil {
		return err
	}
	return ValidateRequest(v)
}

// RespondWithDecodeError writes the 400 matching a DecodeAndValidate failure
func RespondWithDecodeError(w http.ResponseWriter, err error) {
	if fieldErrors := api.FormatValidationErrors(err); len(fieldErrors) > 0 {
		RespondWithValidationErrors(w, fieldErrors)
		return
	}
	RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
