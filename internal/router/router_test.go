package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/logger"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Init("debug", logger.Options{})
	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{
		Server:      config.ServerConfig{Mode: "debug"},
		AuthorJWT:   config.JWTConfig{SecretKey: "router-secret"},
		Feed:        config.FeedConfig{DefaultLimit: 10},
		Publication: config.PublicationConfig{UseTransaction: true},
	}
	c := provider.NewContainerWithDB(cfg, db, nil)
	return SetupRouter(cfg, c), c
}

func TestRouterPublishFlow(t *testing.T) {
	r, c := setupTestRouter(t)
	token, _, err := c.AuthorTokenService.Generate("author-1")
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/author/posts", strings.NewReader(`{"title":"Hello Router","content":"body","status":"published"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	var created struct {
		StatusCode int         `json:"status_code"`
		Data       models.Post `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response failed: %v", err)
	}
	if created.StatusCode != 0 || created.Data.Slug == "" {
		t.Fatalf("create via router failed: %s", w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("request id header should be set")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/posts/"+created.Data.Slug, nil))
	if !strings.Contains(w.Body.String(), created.Data.ID) {
		t.Fatalf("public slug route should return the post, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/feed", nil))
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Fatalf("feed should list the post, got %s", w.Body.String())
	}
}

func TestRouterAuthorRoutesRequireToken(t *testing.T) {
	r, _ := setupTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/author/posts", nil))
	if decodeStatusCode(t, w) != 401 {
		t.Fatalf("author route without token should be 401, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health want 200 got %d", w.Code)
	}
}
