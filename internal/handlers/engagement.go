package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/middleware"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

// Engagement groups the like and bookmark handlers. Both act on blogs only.
type Engagement struct {
	engagementStore *store.EngagementStore
	blogStore       *store.BlogStore
}

// NewEngagement creates a new Engagement handler group.
func NewEngagement(engagementStore *store.EngagementStore, blogStore *store.BlogStore) *Engagement {
	return &Engagement{engagementStore: engagementStore, blogStore: blogStore}
}

// ToggleLike flips the like state for the current user on a blog.
func (h *Engagement) ToggleLike(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	blogID, ok := h.approvedBlogID(w, r)
	if !ok {
		return
	}
	liked, err := h.engagementStore.ToggleLike(sess.UserID, blogID)
	if err != nil {
		slog.Error("toggle like failed", "error", err, "blog_id", blogID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// ToggleBookmark flips the bookmark state for the current user on a blog.
func (h *Engagement) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	blogID, ok := h.approvedBlogID(w, r)
	if !ok {
		return
	}
	bookmarked, err := h.engagementStore.ToggleBookmark(sess.UserID, blogID)
	if err != nil {
		slog.Error("toggle bookmark failed", "error", err, "blog_id", blogID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

// Likes returns the like count for a blog, plus whether the current user
// has liked it.
func (h *Engagement) Likes(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	blogID, ok := h.approvedBlogID(w, r)
	if !ok {
		return
	}
	count, err := h.engagementStore.LikeCount(blogID)
	if err != nil {
		slog.Error("like count failed", "error", err, "blog_id", blogID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	liked, err := h.engagementStore.HasLiked(sess.UserID, blogID)
	if err != nil {
		slog.Error("like lookup failed", "error", err, "blog_id", blogID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"count": count, "liked": liked})
}

// Bookmarks lists the blogs the current user has bookmarked.
func (h *Engagement) Bookmarks(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ids, err := h.engagementStore.BookmarkedBlogIDs(sess.UserID)
	if err != nil {
		slog.Error("bookmark list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	blogs := make([]blogResponse, 0, len(ids))
	for _, id := range ids {
		blog, err := h.blogStore.FindByID(id)
		if err != nil {
			slog.Error("bookmark lookup failed", "error", err, "blog_id", id)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		// Bookmarks can outlive approval. Skip anything no longer public.
		if blog == nil || !blog.IsApproved() {
			continue
		}
		blogs = append(blogs, renderBlog(blog))
	}
	respondJSON(w, http.StatusOK, blogs)
}

// approvedBlogID parses the id and verifies the blog exists and is public.
func (h *Engagement) approvedBlogID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid blog id")
		return 0, false
	}
	blog, err := h.blogStore.FindByID(id)
	if err != nil {
		slog.Error("blog lookup failed", "error", err, "blog_id", id)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return 0, false
	}
	if blog == nil || !blog.IsApproved() {
		respondError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
