// Package httpkit holds the HTTP plumbing shared by every module: response
// envelopes, request logging, security headers and the intake rate limiter.
package httpkit

import (
	"errors"
	"net/http"

	"takeout_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the envelope for every non-2xx body.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// OK writes payload with a 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes a response for err and reports whether it wrote one.
// Typed *apperr.Error values map through their Kind; anything else becomes an
// internal failure whose detail stays out of the body.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{Error: domainErr.Message})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	return true
}
