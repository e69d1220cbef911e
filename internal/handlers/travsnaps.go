package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/cache"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/middleware"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/moderation"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

// Travsnaps groups the travsnap handlers. Unlike blogs there is no draft
// state: creating a travsnap submits it for review in the same request.
type Travsnaps struct {
	snapStore *store.TravsnapStore
	workflow  *moderation.Workflow
	feeds     *cache.FeedCache
}

// NewTravsnaps creates a new Travsnaps handler group. feeds may be nil.
func NewTravsnaps(snapStore *store.TravsnapStore, workflow *moderation.Workflow, feeds *cache.FeedCache) *Travsnaps {
	return &Travsnaps{snapStore: snapStore, workflow: workflow, feeds: feeds}
}

// List serves the approved travsnap feed, from cache when warm.
func (h *Travsnaps) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	if h.feeds != nil {
		if payload, ok := h.feeds.Get(r.Context(), models.ContentTypeTravsnap, limit, offset); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	snaps, err := h.snapStore.ListApproved(limit, offset)
	if err != nil {
		slog.Error("list travsnaps failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	payload, err := json.Marshal(snaps)
	if err != nil {
		slog.Error("feed marshal failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if h.feeds != nil {
		h.feeds.Set(r.Context(), models.ContentTypeTravsnap, limit, offset, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Get serves one travsnap. Unapproved snaps are visible only to their
// owner and moderators.
func (h *Travsnaps) Get(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r)
	if !ok {
		return
	}
	if !snap.IsApproved() && !canViewUnapproved(r.Context(), snap.UserID) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

type travsnapRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    json.RawMessage `json:"location"`
	Gallery     json.RawMessage `json:"gallery"`
}

// Create inserts a travsnap and immediately submits it for review.
func (h *Travsnaps) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req travsnapRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTravsnapInput(req.Title, req.Description); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	snap, err := h.snapStore.Create(store.CreateTravsnapParams{
		UserID:      sess.UserID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Gallery:     req.Gallery,
	})
	if err != nil {
		slog.Error("create travsnap failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.workflow.Submit(r.Context(), snap.Ref(), sess.UserID); err != nil {
		respondWorkflowError(w, err)
		return
	}

	// Re-read so the response carries the moderation_id set by Submit.
	snap, err = h.snapStore.FindByID(snap.ID)
	if err != nil || snap == nil {
		slog.Error("travsnap re-read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

// Update replaces the author-editable fields. Owner only; terminal snaps
// cannot be edited in place.
func (h *Travsnaps) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	snap, ok := h.load(w, r)
	if !ok {
		return
	}
	if snap.UserID != sess.UserID {
		respondError(w, http.StatusForbidden, "not your travsnap")
		return
	}
	if snap.Status.IsTerminal() {
		respondError(w, http.StatusConflict, "moderated travsnaps cannot be edited")
		return
	}

	var req travsnapRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTravsnapInput(req.Title, req.Description); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	updated, err := h.snapStore.Update(snap.ID, store.CreateTravsnapParams{
		UserID:      snap.UserID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Gallery:     req.Gallery,
	})
	if err != nil {
		slog.Error("update travsnap failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Mine lists the authenticated user's travsnaps in every state.
func (h *Travsnaps) Mine(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	snaps, err := h.snapStore.ListByUser(sess.UserID)
	if err != nil {
		slog.Error("list own travsnaps failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, snaps)
}

// Feature toggles the featured flag. SuperAdmin only (enforced by route).
func (h *Travsnaps) Feature(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.snapStore.SetFeatured(snap.ID, !snap.IsFeatured); err != nil {
		slog.Error("feature toggle failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"is_featured": !snap.IsFeatured})
}

func (h *Travsnaps) load(w http.ResponseWriter, r *http.Request) (*models.Travsnap, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid travsnap id")
		return nil, false
	}
	snap, err := h.snapStore.FindByID(id)
	if err != nil {
		slog.Error("travsnap lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if snap == nil {
		respondError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	return snap, true
}
