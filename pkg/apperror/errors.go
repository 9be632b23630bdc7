package apperror

import (
	"fmt"
	"net/http"
)

// AppError is an error with a stable code and the HTTP status it renders
// as. Err is logged but never sent to clients.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any *AppError carrying the same code, so callers can test
// errors.Is(err, apperror.ErrBatchTooLarge(0)) without comparing messages.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(code, message string, httpStatus int) *AppError {
	return Wrap(code, message, httpStatus, nil)
}

func Wrap(code, message string, httpStatus int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// ---- Ledger requests (LED) ----

// Validation returns a LED_001 error for a malformed request.
func Validation(message string) *AppError {
	return New("LED_001", message, http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrBatchTooLarge(limit int) *AppError {
	return New("LED_003", fmt.Sprintf("Batch exceeds %d transactions", limit), http.StatusRequestEntityTooLarge)
}

func ErrAuditChainBroken(err error) *AppError {
	return Wrap("LED_004", "Audit digest chain does not verify", http.StatusConflict, err)
}

func ErrBodyTooLarge() *AppError {
	return New("LED_005", "Request body too large", http.StatusRequestEntityTooLarge)
}

// ---- Authentication (AUTH) ----

func ErrMissingToken() *AppError {
	return New("AUTH_001", "Missing or malformed authorization header", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}

func ErrExportDisabled() *AppError {
	return New("SYS_003", "Report export store is not configured", http.StatusServiceUnavailable)
}
