package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrSignatureMissing = &AppError{http.StatusUnauthorized, "SIGNATURE_MISSING", "Webhook signature is missing"}
	ErrSignatureInvalid = &AppError{http.StatusForbidden, "SIGNATURE_INVALID", "Webhook signature is invalid"}

	// User-safe wrappers for gateway failures; full detail stays in the logs.
	ErrGatewayUnavailable = &AppError{http.StatusBadGateway, "GATEWAY_UNAVAILABLE", "Payment provider could not be reached"}
	ErrGatewayRejected    = &AppError{http.StatusBadGateway, "GATEWAY_REJECTED", "Payment provider rejected the request"}
	ErrNotConfigured      = &AppError{http.StatusInternalServerError, "NOT_CONFIGURED", "Payment provider is not configured"}
)
