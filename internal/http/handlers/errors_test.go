package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderdesk/internal/domain"
	"orderdesk/internal/schema"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"schema", &schema.Error{Code: schema.CodeValidation, Fields: []schema.FieldError{{In: schema.InQuery, Name: "limit", Reason: schema.ReasonZero}}}, http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("login: %w", domain.ErrUnauthorized), http.StatusUnauthorized},
		{"validation", domain.ValidationError{Field: "customer_id", Msg: "does not exist"}, http.StatusBadRequest},
		{"not found", domain.NotFoundError{Resource: "orders", ID: "o1"}, http.StatusNotFound},
		{"conflict", domain.ConflictError{Resource: "quotes", Msg: "duplicate number"}, http.StatusConflict},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			RespondDomainError(c, tc.err)
			if w.Code != tc.status {
				t.Fatalf("status %d want %d (%s)", w.Code, tc.status, w.Body.String())
			}
		})
	}
}
