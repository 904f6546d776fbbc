package rest

import (
	"context"
	"errors"
	"net/http"

	domainErrors "github.com/thornfield-systems/behavior-guard/internal/domain/errors"
	"github.com/thornfield-systems/behavior-guard/internal/domain/validation"
)

// errorResponse is the (status, code, message, details) shape the envelope
// needs to describe a failed request.
type errorResponse struct {
	status  int
	code    string
	message string
	details validation.FieldErrors
}

// classifyError maps any error reaching a handler to an HTTP status and
// error envelope. Unrecognized errors are treated as internal and logged
// by the caller, never echoed back verbatim to the client.
func classifyError(err error) errorResponse {
	if err == nil {
		return errorResponse{status: http.StatusOK}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errorResponse{status: http.StatusRequestTimeout, code: "REQUEST_CANCELLED", message: "request was cancelled"}
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return errorResponse{status: appErr.StatusCode, code: appErr.Code, message: appErr.Message}
	}

	return errorResponse{status: http.StatusInternalServerError, code: "INTERNAL_ERROR", message: "an internal error occurred"}
}

func validationFailure(fieldErrors validation.FieldErrors) errorResponse {
	return errorResponse{
		status:  http.StatusBadRequest,
		code:    "VALIDATION_ERROR",
		message: "request failed validation",
		details: fieldErrors,
	}
}
