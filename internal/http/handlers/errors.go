package handlers

import (
	"errors"
	"net/http"

	"orderdesk/internal/domain"
	"orderdesk/internal/http/middleware"
	"orderdesk/internal/schema"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps schema and domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var verr *schema.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "request validation failed",
			"code":       verr.Code,
			"fields":     verr.Fields,
			"request_id": middleware.GetRequestID(c),
		})
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
