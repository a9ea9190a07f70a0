package public

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkpost/internal/config"
	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/models"
	"github.com/inkpost/internal/provider"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
		HasNext    bool  `json:"has_next"`
		HasPrev    bool  `json:"has_prev"`
	} `json:"pagination"`
}

type publicFixture struct {
	router    *gin.Engine
	container *provider.Container
}

func setupPublicRouter(t *testing.T, maxLimit int) *publicFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{
		Feed:        config.FeedConfig{DefaultLimit: 2, MaxLimit: maxLimit},
		Publication: config.PublicationConfig{UseTransaction: true},
	}
	container := provider.NewContainerWithDB(cfg, db, nil)
	h := New(container)

	r := gin.New()
	group := r.Group("/public")
	group.GET("/posts", h.GetPosts)
	group.GET("/posts/:slug", h.GetPostBySlug)
	group.GET("/feed", h.GetFeed)
	return &publicFixture{router: r, container: container}
}

func (f *publicFixture) publish(t *testing.T, authorID, title string) *models.Post {
	t.Helper()
	content := "body of " + title
	post, err := f.container.PostService.Create(context.Background(), service.CreatePostInput{
		AuthorID: authorID,
		Title:    title,
		Content:  &content,
		Status:   constants.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("seed post failed: %v", err)
	}
	return post
}

func (f *publicFixture) get(t *testing.T, target string) apiResponse {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s http status want 200 got %d", target, w.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func decodePosts(t *testing.T, resp apiResponse) []models.Post {
	t.Helper()
	var posts []models.Post
	if err := json.Unmarshal(resp.Data, &posts); err != nil {
		t.Fatalf("decode posts failed: %v (%s)", err, string(resp.Data))
	}
	return posts
}

func TestGetFeedDedupsAuthors(t *testing.T) {
	f := setupPublicRouter(t, 0)
	f.publish(t, "author-a", "A one")
	f.publish(t, "author-a", "A two")
	f.publish(t, "author-b", "B one")

	resp := f.get(t, "/public/feed?limit=10")
	if resp.StatusCode != 0 {
		t.Fatalf("feed failed: %+v", resp)
	}
	posts := decodePosts(t, resp)
	if len(posts) != 2 || resp.Pagination.Total != 2 {
		t.Fatalf("feed should list one post per author, got len=%d total=%d", len(posts), resp.Pagination.Total)
	}
	seen := map[string]bool{}
	for _, post := range posts {
		if seen[post.AuthorID] {
			t.Fatalf("author %s appears twice", post.AuthorID)
		}
		seen[post.AuthorID] = true
	}

	raw := f.get(t, "/public/posts?limit=10")
	if raw.Pagination.Total != 3 {
		t.Fatalf("published list should keep duplicates, total=%d", raw.Pagination.Total)
	}
}

func TestGetPostsDefaultLimitAndPaging(t *testing.T) {
	f := setupPublicRouter(t, 0)
	for _, author := range []string{"a1", "a2", "a3"} {
		f.publish(t, author, "post "+author)
	}

	first := f.get(t, "/public/posts")
	if len(decodePosts(t, first)) != 2 || first.Pagination.Limit != 2 || !first.Pagination.HasNext || first.Pagination.HasPrev {
		t.Fatalf("default limit should apply: %+v", first.Pagination)
	}
	second := f.get(t, "/public/posts?page=2")
	if len(decodePosts(t, second)) != 1 || second.Pagination.HasNext || !second.Pagination.HasPrev {
		t.Fatalf("unexpected second page: %+v", second.Pagination)
	}
	beyond := f.get(t, "/public/posts?page=5")
	if posts := decodePosts(t, beyond); len(posts) != 0 || string(beyond.Data) != "[]" {
		t.Fatalf("page beyond range should be empty list, got %s", string(beyond.Data))
	}
}

func TestGetPostsRejectsBadPaging(t *testing.T) {
	f := setupPublicRouter(t, 5)
	cases := map[string]string{
		"/public/posts?page=0":   "page must be a positive integer",
		"/public/feed?limit=-2":  "limit must be a positive integer",
		"/public/posts?page=one": "page must be a positive integer",
		"/public/feed?limit=6":   "limit exceeds the maximum",
	}
	for target, msg := range cases {
		resp := f.get(t, target)
		if resp.StatusCode != 400 || resp.Msg != msg {
			t.Fatalf("%s want 400 %q got %d %q", target, msg, resp.StatusCode, resp.Msg)
		}
	}

	// (page-1)*limit 超出 int 范围
	huge := f.get(t, "/public/posts?page=4611686018427387905&limit=2")
	if huge.StatusCode != 400 || huge.Msg != "page is out of range" {
		t.Fatalf("overflowing page want 400 got %d %q", huge.StatusCode, huge.Msg)
	}
}

func TestGetPostBySlug(t *testing.T) {
	f := setupPublicRouter(t, 0)
	post := f.publish(t, "author-a", "Readable Title")

	resp := f.get(t, "/public/posts/"+post.Slug)
	if resp.StatusCode != 0 {
		t.Fatalf("slug lookup failed: %+v", resp)
	}
	var got models.Post
	if err := json.Unmarshal(resp.Data, &got); err != nil || got.ID != post.ID {
		t.Fatalf("slug lookup returned wrong post: %v", err)
	}

	draftContent := "draft"
	draft, err := f.container.PostService.Create(context.Background(), service.CreatePostInput{
		AuthorID: "author-a",
		Title:    "Hidden",
		Content:  &draftContent,
	})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if resp := f.get(t, "/public/posts/"+draft.Slug); resp.StatusCode != 404 {
		t.Fatalf("draft should not be public, got %d", resp.StatusCode)
	}
}
