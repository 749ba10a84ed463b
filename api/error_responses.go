package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/site-search/internal/errors"
)

// ErrorCode identifies the kind of failure in an error body
type ErrorCode string

const (
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidQuery     ErrorCode = "INVALID_QUERY" // only the q parameter was rejected

	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeLoadFailed    ErrorCode = "LOAD_FAILED"
)

// ErrorDetail points at the field or upstream resource behind an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError is the body of every non-2xx response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// SendError writes an APIError tagged with the request ID.
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	body := &APIError{
		Error:     http.StatusText(statusCode),
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
	if id := c.GetString(requestIDKey); id != "" {
		body.RequestID = id
	}
	c.JSON(statusCode, body)
}

// SendStructuredValidationError sends a 400 with one detail per rejected field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	code := ErrorCodeInvalidQuery
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		if err.Field != "q" {
			code = ErrorCodeValidationFailed
		}
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, code, "Request validation failed", details...)
}

// SendLoadError sends a 502 for an index that could not be fetched or parsed.
// message is what the search widget would show inline.
func SendLoadError(c *gin.Context, message string, err error) {
	var details []ErrorDetail
	var loadErr *internalErrors.LoadError
	if errors.As(err, &loadErr) {
		detail := ErrorDetail{Field: "source", Message: loadErr.Source}
		if loadErr.Status != 0 {
			detail.Code = strconv.Itoa(loadErr.Status)
		}
		details = append(details, detail)
	}
	SendError(c, http.StatusBadGateway, ErrorCodeLoadFailed, message, details...)
}

// SendInternalError sends a 500 naming the failed operation
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}
