package api

import (
	"database/sql"
	"fmt"
	"log"
	stdhttp "net/http"

	intconfig "orderdesk/internal/config"
	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain/models"
	h "orderdesk/internal/http/handlers"
	"orderdesk/internal/http/middleware"
	"orderdesk/internal/validators"

	"github.com/casbin/casbin/v3"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route. db may be nil, in which case handlers use the shared connection.
func NewRouter(env intconfig.Env, db *sql.DB) (*gin.Engine, error) {
	dialect := intdb.DialectFor(env.DBDriver)

	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Metrics(),
		middleware.RateLimit(env.RateLimitPerMinute, env.RateLimitBurst),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := h.AuthHandler{
		Secret:  []byte(env.JWTSecret),
		TTL:     env.TokenTTL,
		Dialect: dialect,
		DB:      db,
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck(dialect))
		api.GET("/routes", h.Routes)
		api.POST("/auth/login", authHandler.Login)

		private := api.Group("", middleware.Auth(authHandler.Service("")))
		private.GET("/auth/me", authHandler.Me)

		for _, res := range models.All() {
			schemas, ok := validators.For(res.Name)
			if !ok {
				return nil, fmt.Errorf("no request schemas for resource %q", res.Name)
			}
			mountResource(private.Group("/"+res.Name), enforcer, h.ResourceHandler{
				Resource:     res,
				Schemas:      schemas,
				Dialect:      dialect,
				DefaultLimit: env.DefaultLimit,
				DB:           db,
			})
		}
	}

	h.SetRouter(r)
	return r, nil
}

func mountResource(g *gin.RouterGroup, e *casbin.Enforcer, rh h.ResourceHandler) {
	name := rh.Resource.Name
	read := middleware.Authorize(e, name, middleware.ActionRead)
	write := middleware.Authorize(e, name, middleware.ActionWrite)
	del := middleware.Authorize(e, name, middleware.ActionDelete)

	g.GET("", read, rh.List)
	g.GET("/:id", read, rh.Get)
	g.POST("", write, rh.Create)
	g.PUT("/:id", write, rh.Update)
	g.PATCH("/:id", write, rh.Update)
	g.DELETE("/:id", del, rh.Delete)

	if name == models.Quotes.Name {
		g.GET("/:id/pdf", read, rh.QuotePDF)
	}
}
