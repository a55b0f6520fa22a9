package dto

import (
	"net/http"
	"strings"
)

// Error codes surfaced by this service. Domain errors carry these codes
// verbatim; the HTTP layer only decides the status line.

// General error codes
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeInvalidToken = "INVALID_TOKEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Codes not
// listed fall back to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeInvalidToken: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Directory conflicts -> 409
	"DUPLICATE_CODE":      http.StatusConflict,
	"DUPLICATE_REQUEST":   http.StatusConflict,
	"STORE_ALREADY_BOUND": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":               http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":          http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":              http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":            http.StatusUnprocessableEntity,
	"WAREHOUSE_ACTIVE":            http.StatusUnprocessableEntity,
	"WAREHOUSE_INACTIVE":          http.StatusUnprocessableEntity,
	"WAREHOUSE_NOT_EMPTY":         http.StatusUnprocessableEntity,
	"WAREHOUSE_HAS_CHILDREN":      http.StatusUnprocessableEntity,
	"WAREHOUSE_HAS_OPEN_REQUESTS": http.StatusUnprocessableEntity,
	"NO_SOURCE_WAREHOUSE":         http.StatusUnprocessableEntity,
	"UNKNOWN_PRODUCT":             http.StatusUnprocessableEntity,
	"UNKNOWN_STORE":               http.StatusUnprocessableEntity,

	// Input validation -> 400 Bad Request
	"VALIDATION_ERROR": http.StatusBadRequest,
	"EMPTY_REQUEST":    http.StatusBadRequest,
	"DUPLICATE_ITEM":   http.StatusBadRequest,

	// Ledger reconciliation failure is a server-side fault
	"CONSISTENCY_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Codes with
// an INVALID_ prefix that are not explicitly mapped are treated as input
// validation failures; everything else unknown is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
