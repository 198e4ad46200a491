package handlers

import (
	"database/sql"
	"net/http"
	"time"

	intdb "orderdesk/internal/db"
	"orderdesk/internal/http/middleware"
	"orderdesk/internal/repositories"
	"orderdesk/internal/schema"
	"orderdesk/internal/services"

	"github.com/gin-gonic/gin"
)

var loginRequest = schema.Request{
	Body: schema.Object(map[string]schema.Field{
		"email":    schema.Code().Max(190),
		"password": schema.Text().Max(200),
	}),
}

// AuthHandler serves login and the current-user endpoint.
type AuthHandler struct {
	Secret  []byte
	TTL     time.Duration
	Dialect intdb.Dialect
	DB      *sql.DB
}

// Service builds the auth service; also used as the token parser of the auth middleware.
func (h AuthHandler) Service(requestID string) services.AuthService {
	return services.AuthService{
		Users:     repositories.UserRepository{DB: h.DB, Dialect: h.Dialect},
		Secret:    h.Secret,
		TTL:       h.TTL,
		RequestID: requestID,
	}
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	in, ok := validate(c, loginRequest, true)
	if !ok {
		return
	}
	email, _ := in.Body["email"].(string)
	password, _ := in.Body["password"].(string)

	token, user, err := h.Service(middleware.GetRequestID(c)).Login(c.Request.Context(), email, password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToPublic(),
	})
}

// GET /api/auth/me
func (h AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":   middleware.GetSubject(c),
		"role": middleware.GetRole(c),
	})
}
