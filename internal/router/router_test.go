package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/handlers"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/session"
)

// newTestRouter builds the route tree with empty handler groups. Only
// routes that fail in middleware are exercised, so the nil stores inside
// the handlers are never reached.
func newTestRouter() http.Handler {
	return New(session.NewStore(nil), Handlers{
		Auth:        &handlers.Auth{},
		Blogs:       &handlers.Blogs{},
		Travsnaps:   &handlers.Travsnaps{},
		Moderation:  &handlers.Moderation{},
		Assignments: &handlers.Assignments{},
		Engagement:  &handlers.Engagement{},
		Media:       &handlers.Media{},
	})
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/logout"},
		{"GET", "/api/user"},
		{"POST", "/api/blogs"},
		{"PUT", "/api/blogs/1"},
		{"POST", "/api/blogs/1/submit"},
		{"POST", "/api/travsnaps"},
		{"POST", "/api/blogs/1/like"},
		{"GET", "/api/bookmarks"},
		{"POST", "/api/media"},
		{"GET", "/api/moderation/pending"},
		{"POST", "/api/moderation/blog/1/approve"},
		{"POST", "/api/assignments"},
		{"GET", "/api/moderators"},
		{"POST", "/api/blogs/1/feature"},
	}
	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestUnknownContentTypeRouteNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest("GET", "/api/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
