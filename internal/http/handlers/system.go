package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain/models"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "orderdesk api running"})
}

// DBCheck pings the database and reports resource tables the schema is missing.
func DBCheck(d intdb.Dialect) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := intconfig.DB
		if db == nil {
			respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database not connected", nil)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed", nil)
			return
		}

		tables := []string{"users"}
		for _, res := range models.All() {
			tables = append(tables, res.Table)
		}
		missing := d.MissingTables(ctx, db, tables)
		status := http.StatusOK
		if len(missing) > 0 {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"driver":         d.Name,
			"missing_tables": missing,
			"ok":             len(missing) == 0,
		})
	}
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
