package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

// ValidateAndDecode decodes the JSON body into payload and runs its
// validate tags. Bodies over MaxBodyBytes are rejected with 413.
func ValidateAndDecode(r *http.Request, payload any) *AppError {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewAppError(http.StatusRequestEntityTooLarge, "Request body too large", err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}
	return ValidateStruct(payload)
}

// ValidateStruct runs the validate tags of payload.
func ValidateStruct(payload any) *AppError {
	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewAppError(http.StatusBadRequest, validationErrors.Error(), err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	}
	return nil
}
