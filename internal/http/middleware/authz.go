package middleware

import (
	"embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"orderdesk/internal/utils"

	"github.com/casbin/casbin/v3"
	"github.com/gin-gonic/gin"
)

// Permission actions checked by Authorize.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

//go:embed authz/model.conf authz/policy.csv
var authzFS embed.FS

// NewEnforcer loads the embedded RBAC model and policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	dir, err := os.MkdirTemp("", "orderdesk-casbin-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	for _, name := range []string{"model.conf", "policy.csv"} {
		data, err := authzFS.ReadFile("authz/" + name)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			return nil, err
		}
	}
	e, err := casbin.NewEnforcer(filepath.Join(dir, "model.conf"), filepath.Join(dir, "policy.csv"))
	if err != nil {
		return nil, fmt.Errorf("load casbin policy: %w", err)
	}
	return e, nil
}

// Authorize lets the request through when the caller's role may perform action on resource.
func Authorize(e *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing role")
			return
		}
		ok, err := e.Enforce(role, resource, action)
		if err != nil {
			utils.LogEvent(GetRequestID(c), "authz", "enforce_failed", err.Error())
			abort(c, http.StatusInternalServerError, "internal_error", "permission check failed")
			return
		}
		if !ok {
			utils.LogEvent(GetRequestID(c), "authz", "denied", fmt.Sprintf("role=%s resource=%s action=%s", role, resource, action))
			abort(c, http.StatusForbidden, "forbidden", "not allowed")
			return
		}
		c.Next()
	}
}
