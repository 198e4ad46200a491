package handlers

import (
	"database/sql"
	"net/http"

	intdb "orderdesk/internal/db"
	"orderdesk/internal/domain/models"
	"orderdesk/internal/http/middleware"
	"orderdesk/internal/repositories"
	"orderdesk/internal/services"
	"orderdesk/internal/validators"

	"github.com/gin-gonic/gin"
)

// ResourceHandler serves the CRUD endpoints of one resource.
type ResourceHandler struct {
	Resource     models.Resource
	Schemas      validators.Set
	Dialect      intdb.Dialect
	DefaultLimit int
	DB           *sql.DB
}

func (h ResourceHandler) service(c *gin.Context) services.ResourceService {
	return services.ResourceService{
		Repo: repositories.ResourceRepository{
			DB:           h.DB,
			Dialect:      h.Dialect,
			Resource:     h.Resource,
			DefaultLimit: h.DefaultLimit,
		},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/<resource>
func (h ResourceHandler) List(c *gin.Context) {
	in, ok := validate(c, h.Schemas.List, false)
	if !ok {
		return
	}
	page, err := h.service(c).List(c.Request.Context(), in.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/<resource>/:id
func (h ResourceHandler) Get(c *gin.Context) {
	in, ok := validate(c, h.Schemas.Get, false)
	if !ok {
		return
	}
	rec, err := h.service(c).Get(c.Request.Context(), in.Params["id"].(string), in.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

// POST /api/<resource>
func (h ResourceHandler) Create(c *gin.Context) {
	in, ok := validate(c, h.Schemas.Create, true)
	if !ok {
		return
	}
	rec, err := h.service(c).Create(c.Request.Context(), in.Body, in.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rec})
}

// PUT|PATCH /api/<resource>/:id
func (h ResourceHandler) Update(c *gin.Context) {
	in, ok := validate(c, h.Schemas.Update, true)
	if !ok {
		return
	}
	rec, err := h.service(c).Update(c.Request.Context(), in.Params["id"].(string), in.Body, in.Query)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

// DELETE /api/<resource>/:id
func (h ResourceHandler) Delete(c *gin.Context) {
	in, ok := validate(c, h.Schemas.Delete, false)
	if !ok {
		return
	}
	if err := h.service(c).Delete(c.Request.Context(), in.Params["id"].(string), in.Query); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
