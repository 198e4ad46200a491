package handlers

import (
	"net/http"

	"orderdesk/internal/http/middleware"
	"orderdesk/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/quotes/:id/pdf returns the quote document inline.
func (h ResourceHandler) QuotePDF(c *gin.Context) {
	in, ok := validate(c, h.Schemas.Get, false)
	if !ok {
		return
	}
	svc := services.DocsService{
		QuoteRepo: h.service(c).Repo,
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateQuote(c.Request.Context(), in.Params["id"].(string))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
