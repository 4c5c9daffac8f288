package errors

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wodwise/gateway/internal/logger"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.InvalidRequest(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/repositories/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "quota_exceeded")
	Message string `json:"message,omitempty"` // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// quota rejections additionally carry the caller's remaining allowance,
// which is always zero at that point
type QuotaExceededResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining"`
}

// standard error codes
const (
	CodeUnauthorized         = "unauthorized"
	CodeInvalidRequest       = "invalid_request"
	CodeValidationError      = "validation_error"
	CodeQuotaExceeded        = "quota_exceeded"
	CodeModelBackendError    = "model_backend_error"
	CodeMalformedModelOutput = "malformed_model_output"
	CodeServerError          = "server_error"
	CodeTooManyRequests      = "too_many_requests"
	CodeNotFound             = "not_found"
)

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 400 error for requests missing required fields or carrying an
// unknown action
func InvalidRequest(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeInvalidRequest,
		Message: message,
	})
}

// returns a 400 bad request error for body binding failures
func ValidationError(c *gin.Context, err error) {
	message := "validation failed"
	details := ""

	if err != nil {
		details = sanitizeError(err)
		if strings.Contains(err.Error(), "binding") || strings.Contains(err.Error(), "validation") {
			message = "request validation failed"
		}
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
		Details: details,
	})
}

// returns a 429 daily-quota rejection with remaining=0; the wire shape is
// fixed, clients key their paywall UI off it
func QuotaExceeded(c *gin.Context, message string) {
	if message == "" {
		message = "you have used all of today's AI requests"
	}

	c.JSON(http.StatusTooManyRequests, QuotaExceededResponse{
		Error:     "Daily limit reached",
		Message:   message,
		Remaining: 0,
	})
}

// returns an upstream model failure; transient failures get 503 so clients
// may retry, permanent ones get 502
func ModelBackendError(c *gin.Context, transient bool, err error) {
	status := http.StatusBadGateway
	message := "the AI service could not process this request"

	if transient {
		status = http.StatusServiceUnavailable
		message = "the AI service is temporarily unavailable, please try again"
	}

	logger.ErrorErr(err, "model backend call failed",
		"path", c.Request.URL.Path,
		"transient", transient,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(status, ErrorResponse{
		Error:   CodeModelBackendError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 502 for model responses that contained no usable JSON object;
// clients must not auto-retry these
func MalformedModelOutput(c *gin.Context, err error) {
	logger.ErrorErr(err, "model returned malformed output",
		"path", c.Request.URL.Path,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusBadGateway, ErrorResponse{
		Error:   CodeMalformedModelOutput,
		Message: "the AI response could not be read, please try again",
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 429 too many requests error (transport-level rate limit, not the
// daily quota)
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "too many requests"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeTooManyRequests,
		Message: message,
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()
	env := os.Getenv("ENVIRONMENT")

	if env != "production" {
		return errMsg
	}

	if strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") {
		return "database operation failed"
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") {
		return "connection error occurred"
	}

	if strings.Contains(errMsg, "timeout") {
		return "request timed out"
	}

	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "permission") {
		return "permission denied"
	}

	return "an error occurred"
}
