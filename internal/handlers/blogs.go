package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/cache"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/markdown"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/middleware"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/moderation"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/slug"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// Blogs groups the blog CRUD and submission handlers.
type Blogs struct {
	blogStore *store.BlogStore
	workflow  *moderation.Workflow
	feeds     *cache.FeedCache
}

// NewBlogs creates a new Blogs handler group. feeds may be nil.
func NewBlogs(blogStore *store.BlogStore, workflow *moderation.Workflow, feeds *cache.FeedCache) *Blogs {
	return &Blogs{blogStore: blogStore, workflow: workflow, feeds: feeds}
}

// blogResponse is the public shape of a blog, with the Markdown body
// rendered to HTML.
type blogResponse struct {
	*models.Blog
	HTML string `json:"html,omitempty"`
}

func renderBlog(b *models.Blog) blogResponse {
	html, err := markdown.ToHTML(b.Content)
	if err != nil {
		slog.Warn("markdown render failed", "blog_id", b.ID, "error", err)
	}
	return blogResponse{Blog: b, HTML: html}
}

// List serves the approved blog feed, from cache when warm.
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	if h.feeds != nil {
		if payload, ok := h.feeds.Get(r.Context(), models.ContentTypeBlog, limit, offset); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	blogs, err := h.blogStore.ListApproved(limit, offset)
	if err != nil {
		slog.Error("list blogs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]blogResponse, 0, len(blogs))
	for i := range blogs {
		out = append(out, renderBlog(&blogs[i]))
	}

	payload, err := json.Marshal(out)
	if err != nil {
		slog.Error("feed marshal failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if h.feeds != nil {
		h.feeds.Set(r.Context(), models.ContentTypeBlog, limit, offset, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Get serves one blog. Approved blogs are public; drafts and pending or
// rejected blogs are visible only to their owner and moderators.
func (h *Blogs) Get(w http.ResponseWriter, r *http.Request) {
	blog, ok := h.load(w, r)
	if !ok {
		return
	}

	if !blog.IsApproved() && !canViewUnapproved(r.Context(), blog.UserID) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if blog.IsApproved() {
		if err := h.blogStore.IncrementViews(blog.ID); err != nil {
			slog.Warn("view counter update failed", "blog_id", blog.ID, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, renderBlog(blog))
}

type blogRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	Categories  json.RawMessage `json:"categories"`
	Location    json.RawMessage `json:"location"`
	Image       *string         `json:"image"`
	Gallery     json.RawMessage `json:"gallery"`
}

// Create inserts a draft blog owned by the authenticated user.
func (h *Blogs) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateBlogInput(req.Title, req.Description, req.Content); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	unique, err := slug.Unique(slug.Generate(req.Title), func(s string) (bool, error) {
		existing, err := h.blogStore.FindBySlug(s)
		return existing != nil, err
	})
	if err != nil {
		slog.Error("slug lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	blog, err := h.blogStore.Create(store.CreateBlogParams{
		UserID:      sess.UserID,
		Title:       req.Title,
		Slug:        unique,
		Description: req.Description,
		Content:     req.Content,
		Categories:  req.Categories,
		Location:    req.Location,
		Image:       req.Image,
		Gallery:     req.Gallery,
	})
	if err != nil {
		slog.Error("create blog failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, blog)
}

// Update replaces the author-editable fields. Owner only; terminal blogs
// cannot be edited in place.
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	blog, ok := h.load(w, r)
	if !ok {
		return
	}
	if blog.UserID != sess.UserID {
		respondError(w, http.StatusForbidden, "not your blog")
		return
	}
	if blog.Status.IsTerminal() {
		respondError(w, http.StatusConflict, "moderated blogs cannot be edited")
		return
	}

	var req blogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateBlogInput(req.Title, req.Description, req.Content); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	updated, err := h.blogStore.Update(blog.ID, store.CreateBlogParams{
		UserID:      blog.UserID,
		Title:       req.Title,
		Slug:        blog.Slug, // slug is stable once assigned
		Description: req.Description,
		Content:     req.Content,
		Categories:  req.Categories,
		Location:    req.Location,
		Image:       req.Image,
		Gallery:     req.Gallery,
	})
	if err != nil {
		slog.Error("update blog failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Submit moves a draft blog into the review queue. Owner only.
func (h *Blogs) Submit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	blog, ok := h.load(w, r)
	if !ok {
		return
	}
	if blog.UserID != sess.UserID {
		respondError(w, http.StatusForbidden, "not your blog")
		return
	}

	if err := h.workflow.Submit(r.Context(), blog.Ref(), sess.UserID); err != nil {
		respondWorkflowError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

// Mine lists the authenticated user's blogs in every state.
func (h *Blogs) Mine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	blogs, err := h.blogStore.ListByUser(sess.UserID)
	if err != nil {
		slog.Error("list own blogs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, blogs)
}

// Feature toggles the featured flag. SuperAdmin only (enforced by route).
func (h *Blogs) Feature(w http.ResponseWriter, r *http.Request) {
	blog, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.blogStore.SetFeatured(blog.ID, !blog.IsFeatured); err != nil {
		slog.Error("feature toggle failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_featured": !blog.IsFeatured})
}

// load fetches the blog named by the {id} URL parameter, writing the error
// response itself when the id is bad or unknown.
func (h *Blogs) load(w http.ResponseWriter, r *http.Request) (*models.Blog, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid blog id")
		return nil, false
	}
	blog, err := h.blogStore.FindByID(id)
	if err != nil {
		slog.Error("blog lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if blog == nil {
		respondError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	return blog, true
}

// canViewUnapproved reports whether the current session may see content
// that has not passed moderation: the owner or any moderator.
func canViewUnapproved(ctx context.Context, ownerID int64) bool {
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		return false
	}
	if sess.UserID == ownerID {
		return true
	}
	return sess.Role == string(models.RoleAdmin) || sess.Role == string(models.RoleSuperAdmin)
}

// pagination parses limit/offset query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultFeedLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= maxFeedLimit {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
