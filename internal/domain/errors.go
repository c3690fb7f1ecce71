package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigurationMissing = errors.New("required configuration is missing")
	ErrTransport            = errors.New("gateway unreachable")
	ErrUnexpectedResponse   = errors.New("unexpected gateway response")

	ErrSignatureMissing     = errors.New("webhook signature missing")
	ErrSignatureMismatch    = errors.New("webhook signature mismatch")
	ErrMalformedBody        = errors.New("webhook body is not valid JSON")
	ErrMissingTransactionID = errors.New("webhook event has no transaction id")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated field of a payment request so the
// caller can surface all of them at once, not just the first.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// UpstreamError means the gateway was reachable but rejected the request.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gateway rejected request: status %d: %s", e.StatusCode, e.Message)
}
