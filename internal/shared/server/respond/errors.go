package respond

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

var hideDetails atomic.Bool

// HideDetails toggles suppression of error details in responses.
func HideDetails(hide bool) {
	hideDetails.Store(hide)
}

// Error sends a standardized error response. details is dropped unless
// HideDetails is off.
func Error(c *gin.Context, status int, code, message string, details error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if details != nil {
		fields["error"] = details
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	body := ErrorResponse{Success: false, Error: message, Code: code}
	if details != nil && !hideDetails.Load() {
		body.Details = details.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// Failure maps err onto a status and body.
func Failure(c *gin.Context, err error) {
	var pub apperr.Public
	switch {
	case errors.As(err, &pub):
		Error(c, pub.HTTPStatus(), pub.Code(), pub.PublicMessage(), err)
	case errors.Is(err, apperr.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", "Access denied", err)
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", "Not found", err)
	default:
		Error(c, http.StatusInternalServerError, "internal", "Internal server error", err)
	}
}
