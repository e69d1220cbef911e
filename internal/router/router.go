// Package router sets up the HTTP routes and middleware chains for the
// CeylonRover API. Routes are grouped by the capability they require:
// public, authenticated, moderator (with verified 2FA), and superAdmin.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/handlers"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/middleware"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/session"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth        *handlers.Auth
	Blogs       *handlers.Blogs
	Travsnaps   *handlers.Travsnaps
	Moderation  *handlers.Moderation
	Assignments *handlers.Assignments
	Engagement  *handlers.Engagement
	Media       *handlers.Media
}

// New creates the configured chi router.
func New(sessionStore *session.Store, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	r.Get("/health", healthHandler)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})
		r.Get("/blogs", h.Blogs.List)
		r.Get("/blogs/{id}", h.Blogs.Get)
		r.Get("/travsnaps", h.Travsnaps.List)
		r.Get("/travsnaps/{id}", h.Travsnaps.Get)

		// Authenticated routes, any role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/logout", h.Auth.Logout)
			r.Get("/user", h.Auth.Me)

			r.Post("/blogs", h.Blogs.Create)
			r.Put("/blogs/{id}", h.Blogs.Update)
			r.Post("/blogs/{id}/submit", h.Blogs.Submit)
			r.Get("/blogs/mine", h.Blogs.Mine)

			r.Post("/travsnaps", h.Travsnaps.Create)
			r.Put("/travsnaps/{id}", h.Travsnaps.Update)
			r.Get("/travsnaps/mine", h.Travsnaps.Mine)

			r.Post("/blogs/{id}/like", h.Engagement.ToggleLike)
			r.Post("/blogs/{id}/bookmark", h.Engagement.ToggleBookmark)
			r.Get("/blogs/{id}/likes", h.Engagement.Likes)
			r.Get("/bookmarks", h.Engagement.Bookmarks)

			r.Post("/media", h.Media.Upload)
			r.Get("/media/{type}/{id}", h.Media.List)
		})

		// 2FA enrollment requires auth but not a completed verification.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireModerator)
			r.Post("/moderator/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/moderator/2fa/verify", h.Auth.TwoFAVerify)
		})

		// Moderator routes, 2FA-verified session required.
		r.Route("/moderation", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireModerator)
			r.Use(middleware.Require2FA)

			r.Get("/pending", h.Moderation.Pending)
			r.Get("/approved", h.Moderation.Approved)
			r.Get("/rejected", h.Moderation.Rejected)
			r.Get("/{type}/{id}", h.Moderation.Details)
			r.Post("/{type}/{id}/approve", h.Moderation.Approve)
			r.Post("/{type}/{id}/reject", h.Moderation.Reject)
		})

		// SuperAdmin routes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireSuperAdmin)
			r.Use(middleware.Require2FA)

			r.Post("/assignments", h.Assignments.Assign)
			r.Get("/assignments/unassigned", h.Assignments.Unassigned)
			r.Get("/assignments/{moderatorId}", h.Assignments.PendingFor)
			r.Get("/moderators", h.Assignments.Moderators)

			r.Post("/blogs/{id}/feature", h.Blogs.Feature)
			r.Post("/travsnaps/{id}/feature", h.Travsnaps.Feature)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
