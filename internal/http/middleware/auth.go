package middleware

import (
	"net/http"
	"strings"

	"orderdesk/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	subjectKey = "auth_subject"
	roleKey    = "auth_role"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(token string) (*services.Claims, error)
}

// Auth requires a valid bearer token and stores its subject and role on the context.
func Auth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := p.Parse(strings.TrimSpace(token))
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		c.Set(subjectKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

// GetSubject returns the authenticated user id, if any.
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

// GetRole returns the authenticated user's role, if any.
func GetRole(c *gin.Context) string {
	return c.GetString(roleKey)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}
