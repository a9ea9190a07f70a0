package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func newAuthorAuthRouter(tokens *service.AuthorTokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthorJWTAuthMiddleware(tokens))
	r.GET("/author/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"author_id": c.GetString(constants.ContextKeyAuthorID)})
	})
	return r
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestAuthorJWTAuthMiddlewareRejects(t *testing.T) {
	r := newAuthorAuthRouter(service.NewAuthorTokenService(config.JWTConfig{SecretKey: "secret"}))
	headers := []string{"", "Token abc", "Bearer not-a-jwt"}
	for _, header := range headers {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/author/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 got %d", w.Code)
		}
		if code := decodeStatusCode(t, w); code != 401 {
			t.Fatalf("header %q status_code want 401 got %d", header, code)
		}
	}

	w := httptest.NewRecorder()
	newAuthorAuthRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/author/ping", nil))
	if code := decodeStatusCode(t, w); code != 401 {
		t.Fatalf("missing token service status_code want 401 got %d", code)
	}
}

func TestAuthorJWTAuthMiddlewareSetsAuthor(t *testing.T) {
	tokens := service.NewAuthorTokenService(config.JWTConfig{SecretKey: "secret"})
	token, _, err := tokens.Generate("author-42")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/author/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthorAuthRouter(tokens).ServeHTTP(w, req)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["author_id"] != "author-42" {
		t.Fatalf("author id want author-42 got %s", resp["author_id"])
	}
}
