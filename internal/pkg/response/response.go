// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "prepwise-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	c.Abort()

	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(code, response)
}

// FromError maps an application error to its HTTP status. Internal details
// are never echoed back; credential failures all read the same.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		NotFound(c, "resource not found")
	case errors.Is(err, xerrors.ErrInvalidInput):
		ValidationError(c, "invalid input", nil)
	case errors.Is(err, xerrors.ErrInvalidCredentials):
		Unauthorized(c, "Invalid email or password")
	case errors.Is(err, xerrors.ErrInvalidSession), errors.Is(err, xerrors.ErrUnauthorized):
		Unauthorized(c, "invalid or expired session")
	case errors.Is(err, xerrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, "too many attempts, please try again later", nil)
	case errors.Is(err, xerrors.ErrConflict), errors.Is(err, xerrors.ErrDuplicateEntry):
		Error(c, http.StatusConflict, "conflict", nil)
	case errors.Is(err, xerrors.ErrConfigMissing):
		Error(c, http.StatusServiceUnavailable, "service not configured", nil)
	default:
		Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}
