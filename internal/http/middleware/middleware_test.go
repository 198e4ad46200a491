package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderdesk/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeParser map[string]*services.Claims

func (f fakeParser) Parse(token string) (*services.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDKeepsSaneClientValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": {"abc-123"}})
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("client id not kept: body=%q header=%q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}

	w = serve(r, http.MethodGet, "/", http.Header{"X-Request-Id": {"has space"}})
	if got := w.Body.String(); got == "has space" || len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestAuthRequiresBearerToken(t *testing.T) {
	parser := fakeParser{"good": {Role: "staff", RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}}}
	r := gin.New()
	r.Use(RequestID(), Auth(parser))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetSubject(c)+":"+GetRole(c)) })

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"case insensitive scheme", "bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.header != "" {
				h.Set("Authorization", tc.header)
			}
			w := serve(r, http.MethodGet, "/", h)
			if w.Code != tc.status {
				t.Fatalf("status %d want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if tc.status == http.StatusOK && w.Body.String() != "u1:staff" {
				t.Fatalf("unexpected identity %q", w.Body.String())
			}
		})
	}
}

func TestPolicy(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	cases := []struct {
		role, resource, action string
		want                   bool
	}{
		{"viewer", "orders", ActionRead, true},
		{"viewer", "orders", ActionWrite, false},
		{"staff", "customers", ActionRead, true},
		{"staff", "jobs", ActionWrite, true},
		{"staff", "quotes", ActionWrite, false},
		{"staff", "jobs", ActionDelete, false},
		{"manager", "quotes", ActionWrite, true},
		{"manager", "quotes", ActionDelete, true},
		{"manager", "customers", ActionDelete, false},
		{"admin", "customers", ActionDelete, true},
		{"stranger", "orders", ActionRead, false},
	}
	for _, tc := range cases {
		got, err := e.Enforce(tc.role, tc.resource, tc.action)
		if err != nil {
			t.Fatalf("enforce %v: %v", tc, err)
		}
		if got != tc.want {
			t.Fatalf("%s %s %s: got %v want %v", tc.role, tc.resource, tc.action, got, tc.want)
		}
	}
}

func TestAuthorizeStatuses(t *testing.T) {
	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(roleKey, role)
			}
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.DELETE("/anon", withRole(""), Authorize(e, "orders", ActionDelete), ok)
	r.DELETE("/staff", withRole("staff"), Authorize(e, "orders", ActionDelete), ok)
	r.DELETE("/manager", withRole("manager"), Authorize(e, "orders", ActionDelete), ok)

	for path, want := range map[string]int{
		"/anon":    http.StatusUnauthorized,
		"/staff":   http.StatusForbidden,
		"/manager": http.StatusNoContent,
	} {
		if w := serve(r, http.MethodDelete, path, nil); w.Code != want {
			t.Fatalf("%s: status %d want %d", path, w.Code, want)
		}
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Minute), 2, 10*time.Minute)
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	if !rl.Allow("10.0.0.1", now) || !rl.Allow("10.0.0.1", now) {
		t.Fatalf("burst should be allowed")
	}
	if rl.Allow("10.0.0.1", now) {
		t.Fatalf("third request should be limited")
	}
	if !rl.Allow("10.0.0.2", now) {
		t.Fatalf("other ip has its own bucket")
	}
	if !rl.Allow("10.0.0.1", now.Add(time.Minute)) {
		t.Fatalf("token should refill after a minute")
	}

	rl.Allow("10.0.0.3", now.Add(time.Hour))
	if len(rl.limiters) != 1 {
		t.Fatalf("idle visitors should be evicted, have %d", len(rl.limiters))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, http.MethodGet, "/", nil); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}

	open := gin.New()
	open.Use(RateLimit(0, 0))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		if w := serve(open, http.MethodGet, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}
