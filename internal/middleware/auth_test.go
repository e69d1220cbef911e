package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    1,
		Email:     "test@ceylonrover.local",
		Name:      "Test User",
		Role:      role,
		TwoFADone: twoFADone,
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses. This allows tests to simulate
// the state after LoadSession has run without needing a real Valkey store.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, sess *session.Data) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	inner, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/moderation/pending", nil)
	if sess != nil {
		req = req.WithContext(ctxWithSession(req.Context(), sess))
	}
	rr := httptest.NewRecorder()
	mw(inner).ServeHTTP(rr, req)
	return rr, *called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession("admin", true)
		got := SessionFromCtx(ctxWithSession(context.Background(), sess))
		if got == nil || got.Email != sess.Email || got.Role != sess.Role {
			t.Fatalf("got %+v, want %+v", got, sess)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	rr, called := serve(t, RequireAuth, nil)
	if called || rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: called=%v status=%d, want blocked 401", called, rr.Code)
	}

	rr, called = serve(t, RequireAuth, newTestSession("user", false))
	if !called || rr.Code != http.StatusOK {
		t.Errorf("authenticated: called=%v status=%d, want pass", called, rr.Code)
	}
}

func TestRequireModerator(t *testing.T) {
	tests := []struct {
		role string
		pass bool
	}{
		{"user", false},
		{"admin", true},
		{"superAdmin", true},
		{"", false},
		{"Admin", false}, // roles are case-sensitive; fails closed
	}
	for _, tt := range tests {
		rr, called := serve(t, RequireModerator, newTestSession(tt.role, true))
		if tt.pass && (!called || rr.Code != http.StatusOK) {
			t.Errorf("role %q: called=%v status=%d, want pass", tt.role, called, rr.Code)
		}
		if !tt.pass && (called || rr.Code != http.StatusForbidden) {
			t.Errorf("role %q: called=%v status=%d, want blocked 403", tt.role, called, rr.Code)
		}
	}

	if rr, called := serve(t, RequireModerator, nil); called || rr.Code != http.StatusForbidden {
		t.Errorf("anonymous: want blocked 403, got called=%v status=%d", called, rr.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	if rr, called := serve(t, RequireSuperAdmin, newTestSession("admin", true)); called || rr.Code != http.StatusForbidden {
		t.Errorf("admin: want blocked 403, got called=%v status=%d", called, rr.Code)
	}
	if rr, called := serve(t, RequireSuperAdmin, newTestSession("superAdmin", true)); !called || rr.Code != http.StatusOK {
		t.Errorf("superAdmin: want pass, got called=%v status=%d", called, rr.Code)
	}
}

func TestRequire2FA(t *testing.T) {
	if rr, called := serve(t, Require2FA, newTestSession("admin", false)); called || rr.Code != http.StatusForbidden {
		t.Errorf("unverified: want blocked 403, got called=%v status=%d", called, rr.Code)
	}
	if _, called := serve(t, Require2FA, newTestSession("admin", true)); !called {
		t.Error("verified session should pass")
	}
}
