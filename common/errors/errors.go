package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Authorization error types
var (
	ErrUnauthorized = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden    = New(http.StatusForbidden, "Admin access required", nil)
	ErrInvalidToken = New(http.StatusUnauthorized, "Invalid token", nil)
)

// ErrorMiddleware converts errors attached to the gin context into
// JSON responses.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = New(http.StatusInternalServerError, "Internal server error", err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
