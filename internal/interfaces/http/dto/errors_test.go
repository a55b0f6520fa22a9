package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{"DUPLICATE_CODE", http.StatusConflict},
		{"DUPLICATE_REQUEST", http.StatusConflict},
		{"STORE_ALREADY_BOUND", http.StatusConflict},
		{"INSUFFICIENT_STOCK", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"WAREHOUSE_NOT_EMPTY", http.StatusUnprocessableEntity},
		{"WAREHOUSE_HAS_OPEN_REQUESTS", http.StatusUnprocessableEntity},
		{"UNKNOWN_STORE", http.StatusUnprocessableEntity},
		{"CONSISTENCY_ERROR", http.StatusInternalServerError},
		{"VALIDATION_ERROR", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestGetHTTPStatus_InvalidPrefixFallback(t *testing.T) {
	// Validation codes share the INVALID_ prefix and need no explicit entry
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_QUANTITY"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_PARENT"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_TRANSFER"))
}

func TestGetHTTPStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}
