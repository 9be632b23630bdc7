package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("LED_002", "account not found", http.StatusNotFound),
			expected: "LED_002: account not found",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_002", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "SYS_002: DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("submit: %w", ErrBatchTooLarge(500))

	assert.True(t, errors.Is(err, ErrBatchTooLarge(0)))
	assert.False(t, errors.Is(err, ErrBodyTooLarge()))
	assert.False(t, errors.Is(err, errors.New("LED_003")))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("LED_001", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Validation", Validation("bad"), "LED_001", 400},
		{"NotFound", ErrNotFound("account"), "LED_002", 404},
		{"BatchTooLarge", ErrBatchTooLarge(10), "LED_003", 413},
		{"AuditChainBroken", ErrAuditChainBroken(errors.New("x")), "LED_004", 409},
		{"BodyTooLarge", ErrBodyTooLarge(), "LED_005", 413},
		{"MissingToken", ErrMissingToken(), "AUTH_001", 401},
		{"InvalidToken", ErrInvalidToken(), "AUTH_002", 401},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429},
		{"Internal", InternalError(errors.New("x")), "SYS_001", 500},
		{"Database", ErrDatabaseError(errors.New("x")), "SYS_002", 500},
		{"ExportDisabled", ErrExportDisabled(), "SYS_003", 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "account not found", ErrNotFound("account").Message)
	assert.Equal(t, "Batch exceeds 500 transactions", ErrBatchTooLarge(500).Message)
}
