package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"orderdesk/internal/http/middleware"
	"orderdesk/internal/schema"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON object body. An empty body decodes to an empty map.
func decodeBody(c *gin.Context) (map[string]any, bool) {
	out := map[string]any{}
	if c.Request.Body == nil {
		return out, true
	}
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, true
		}
		respondError(c, http.StatusBadRequest, "invalid_json", "body must be a JSON object", nil)
		return nil, false
	}
	return out, true
}

func paramsOf(c *gin.Context) map[string]any {
	out := make(map[string]any, len(c.Params))
	for _, p := range c.Params {
		out[p.Key] = p.Value
	}
	return out
}

// validate decodes the request parts and checks them against req.
func validate(c *gin.Context, req schema.Request, withBody bool) (schema.Input, bool) {
	in := schema.Input{
		Params: paramsOf(c),
		Query:  ParseQuery(c.Request.URL.Query()),
	}
	if withBody {
		body, ok := decodeBody(c)
		if !ok {
			return schema.Input{}, false
		}
		in.Body = body
	}
	out, err := req.Validate(in)
	if err != nil {
		var verr *schema.Error
		if errors.As(err, &verr) {
			parts := map[string]bool{}
			for _, f := range verr.Fields {
				if !parts[f.In] {
					parts[f.In] = true
					middleware.CountValidationFailure(c, f.In)
				}
			}
		}
		RespondDomainError(c, err)
		return schema.Input{}, false
	}
	return out, true
}
