package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inkpost/internal/constants"
	"github.com/inkpost/internal/service"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	StatusCode int                    `json:"status_code"`
	Msg        string                 `json:"msg"`
	Data       map[string]interface{} `json:"data"`
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp
}

func TestParsePaginationDefaults(t *testing.T) {
	c, _ := newTestContext("/posts")
	page, limit, err := ParsePagination(c, 0)
	if err != nil {
		t.Fatalf("defaults should parse: %v", err)
	}
	if page != constants.DefaultPage || limit != constants.DefaultPageLimit {
		t.Fatalf("unexpected defaults page=%d limit=%d", page, limit)
	}

	c, _ = newTestContext("/posts?page=3&limit=7")
	page, limit, err = ParsePagination(c, 10)
	if err != nil || page != 3 || limit != 7 {
		t.Fatalf("explicit values want 3/7 got %d/%d (%v)", page, limit, err)
	}
}

func TestParsePaginationRejectsBadInput(t *testing.T) {
	cases := []struct {
		target string
		want   error
	}{
		{"/posts?page=0", service.ErrInvalidPage},
		{"/posts?page=abc", service.ErrInvalidPage},
		{"/posts?limit=-1", service.ErrInvalidLimit},
		{"/posts?limit=", service.ErrInvalidLimit},
	}
	for _, tc := range cases {
		c, _ := newTestContext(tc.target)
		if _, _, err := ParsePagination(c, 20); !errors.Is(err, tc.want) {
			t.Fatalf("%s want %v got %v", tc.target, tc.want, err)
		}
	}
}

func TestRespondServiceErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
		kind string
	}{
		{service.ErrPostNotFound, 404, MsgNotFound, "not_found"},
		{service.ErrSlugConflict, 409, MsgConflict, "conflict"},
		{service.ErrPublishStateInvariant, 500, MsgInvariantViolated, "invariant"},
		{fmt.Errorf("%w: dial tcp: refused", service.ErrFetch), 500, "post fetch failed", "fetch"},
		{errors.New("boom"), 500, "post fetch failed", "internal"},
		{service.ErrInvalidLimit, 400, service.ErrInvalidLimit.Error(), "validation"},
	}
	for _, tc := range cases {
		c, w := newTestContext("/")
		RespondServiceError(c, tc.err, "post fetch failed")
		resp := decodeEnvelope(t, w)
		if w.Code != http.StatusOK {
			t.Fatalf("envelope should always be HTTP 200, got %d", w.Code)
		}
		if resp.StatusCode != tc.code || resp.Msg != tc.msg {
			t.Fatalf("%v want %d/%s got %d/%s", tc.err, tc.code, tc.msg, resp.StatusCode, resp.Msg)
		}
		if resp.Data["kind"] != tc.kind {
			t.Fatalf("%v want kind %s got %v", tc.err, tc.kind, resp.Data["kind"])
		}
	}
}

func TestRespondMappedErrorKind(t *testing.T) {
	c, w := newTestContext("/")
	RespondMappedError(c, 401, "unauthorized", service.ErrAuthorRequired)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 || resp.Data["kind"] != "unauthorized" {
		t.Fatalf("auth codes keep their own kind, got %d %v", resp.StatusCode, resp.Data["kind"])
	}

	c, w = newTestContext("/")
	RespondMappedError(c, 400, "page is out of range", service.ErrPageTooLarge)
	if resp := decodeEnvelope(t, w); resp.Data["kind"] != "validation" {
		t.Fatalf("mapped service error should carry its kind, got %v", resp.Data["kind"])
	}

	c, w = newTestContext("/")
	RespondError(c, 400, MsgBadRequest, errors.New("unexpected EOF"))
	if resp := decodeEnvelope(t, w); resp.Data["kind"] != "validation" {
		t.Fatalf("bad request without service kind should be validation, got %v", resp.Data["kind"])
	}
}

func TestRespondServiceErrorValidationFields(t *testing.T) {
	c, w := newTestContext("/")
	c.Set(constants.ContextKeyRequestID, "req-1")
	RespondServiceError(c, &service.ValidationError{Fields: map[string]string{"title": "title is required"}}, "")
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 400 || resp.Msg != MsgValidationFailed {
		t.Fatalf("unexpected validation response: %+v", resp)
	}
	fields, ok := resp.Data["fields"].(map[string]interface{})
	if !ok || fields["title"] != "title is required" {
		t.Fatalf("field errors should be returned, got %v", resp.Data)
	}
	if resp.Data["kind"] != "validation" {
		t.Fatalf("validation kind should be attached, got %v", resp.Data["kind"])
	}
	if resp.Data["request_id"] != "req-1" {
		t.Fatalf("request id should be attached, got %v", resp.Data["request_id"])
	}
}

func TestGetAuthorID(t *testing.T) {
	c, w := newTestContext("/")
	if _, ok := GetAuthorID(c); ok {
		t.Fatalf("missing author should fail")
	}
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("missing author want 401 got %d", resp.StatusCode)
	}

	c, _ = newTestContext("/")
	c.Set(constants.ContextKeyAuthorID, "author-1")
	if id, ok := GetAuthorID(c); !ok || id != "author-1" {
		t.Fatalf("author id want author-1 got %s", id)
	}
}
