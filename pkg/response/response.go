// Package response renders the JSON envelopes of the ledger API.
package response

import (
	"errors"
	"net/http"
	"time"

	"transaction-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is returned for every failed request. ErrorCode is one of
// the LED_, AUTH_, RATE_ or SYS_ codes from pkg/apperror.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

func OK(c *gin.Context, data any) {
	success(c, http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	success(c, http.StatusCreated, data)
}

// Error renders err. Errors that are not *apperror.AppError become SYS_001.
// The cause is attached to the gin context so RequestLogger can log it.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		appErr = apperror.InternalError(err)
	}
	if err != nil {
		_ = c.Error(err)
	}

	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		RequestID: requestID(c),
		Timestamp: now(),
	})
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: now(),
	})
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return uuid.NewString()
}
