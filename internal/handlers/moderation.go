package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/middleware"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/moderation"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

// Moderation groups the review-queue handlers. All routes behind these
// require a 2FA-verified moderator session.
type Moderation struct {
	workflow  *moderation.Workflow
	blogStore *store.BlogStore
	snapStore *store.TravsnapStore
}

// NewModeration creates a new Moderation handler group.
func NewModeration(workflow *moderation.Workflow, blogStore *store.BlogStore, snapStore *store.TravsnapStore) *Moderation {
	return &Moderation{workflow: workflow, blogStore: blogStore, snapStore: snapStore}
}

// queueItem is one entry in a review queue response. Exactly one of Blog
// and Travsnap is set, matching ContentType.
type queueItem struct {
	ContentType models.ContentType `json:"content_type"`
	ContentID   int64              `json:"content_id"`
	Blog        *models.Blog       `json:"blog,omitempty"`
	Travsnap    *models.Travsnap   `json:"travsnap,omitempty"`
}

// Pending lists the moderator's review queue. Plain admins see their own
// active assignments; superAdmins may pass ?all=1 to see every pending item.
func (h *Moderation) Pending(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if r.URL.Query().Get("all") == "1" {
		if sess.Role != string(models.RoleSuperAdmin) {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
		h.allPending(w)
		return
	}

	refs, err := h.workflow.PendingFor(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("pending queue failed", "error", err, "moderator_id", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	items, err := h.resolveRefs(refs)
	if err != nil {
		slog.Error("pending queue resolve failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Moderation) allPending(w http.ResponseWriter) {
	blogs, err := h.blogStore.ListByStatus(models.ContentStatusPending)
	if err != nil {
		slog.Error("list pending blogs failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	snaps, err := h.snapStore.ListByStatus(models.ContentStatusPending)
	if err != nil {
		slog.Error("list pending travsnaps failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]queueItem, 0, len(blogs)+len(snaps))
	for i := range blogs {
		items = append(items, queueItem{
			ContentType: models.ContentTypeBlog,
			ContentID:   blogs[i].ID,
			Blog:        &blogs[i],
		})
	}
	for i := range snaps {
		items = append(items, queueItem{
			ContentType: models.ContentTypeTravsnap,
			ContentID:   snaps[i].ID,
			Travsnap:    &snaps[i],
		})
	}
	respondJSON(w, http.StatusOK, items)
}

// detailsResponse carries a content item with its full audit trail.
type detailsResponse struct {
	queueItem
	History  []models.ModerationRecord   `json:"history"`
	Assignee *models.ModeratorAssignment `json:"assignee,omitempty"`
}

// Details serves one content item with its moderation history and the
// currently assigned reviewer, if any.
func (h *Moderation) Details(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromURL(w, r)
	if !ok {
		return
	}
	item, err := h.resolveRef(ref)
	if err != nil {
		slog.Error("moderation details failed", "error", err, "ref", ref.String())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	history, err := h.workflow.HistoryFor(r.Context(), ref)
	if err != nil {
		slog.Error("moderation history failed", "error", err, "ref", ref.String())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	assignee, err := h.workflow.ActiveAssigneeFor(r.Context(), ref)
	if err != nil {
		slog.Error("assignee lookup failed", "error", err, "ref", ref.String())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, detailsResponse{
		queueItem: *item,
		History:   history,
		Assignee:  assignee,
	})
}

type approveRequest struct {
	Notes string `json:"notes"`
}

// Approve marks a pending item approved.
func (h *Moderation) Approve(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ref, ok := refFromURL(w, r)
	if !ok {
		return
	}
	var req approveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateNotes(req.Notes); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := h.workflow.Approve(r.Context(), ref, sess.UserID, req.Notes); err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.ContentStatusApproved)})
}

type rejectRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// Reject marks a pending item rejected. A non-empty reason is required.
func (h *Moderation) Reject(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ref, ok := refFromURL(w, r)
	if !ok {
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateNotes(req.Notes); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := h.workflow.Reject(r.Context(), ref, sess.UserID, req.Reason, req.Notes); err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(models.ContentStatusRejected)})
}

// Approved lists previously approved content across both types.
func (h *Moderation) Approved(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, models.ContentStatusApproved)
}

// Rejected lists previously rejected content across both types.
func (h *Moderation) Rejected(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, models.ContentStatusRejected)
}

func (h *Moderation) listByStatus(w http.ResponseWriter, status models.ContentStatus) {
	blogs, err := h.blogStore.ListByStatus(status)
	if err != nil {
		slog.Error("list blogs by status failed", "error", err, "status", status)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	snaps, err := h.snapStore.ListByStatus(status)
	if err != nil {
		slog.Error("list travsnaps by status failed", "error", err, "status", status)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]queueItem, 0, len(blogs)+len(snaps))
	for i := range blogs {
		items = append(items, queueItem{ContentType: models.ContentTypeBlog, ContentID: blogs[i].ID, Blog: &blogs[i]})
	}
	for i := range snaps {
		items = append(items, queueItem{ContentType: models.ContentTypeTravsnap, ContentID: snaps[i].ID, Travsnap: &snaps[i]})
	}
	respondJSON(w, http.StatusOK, items)
}

// resolveRef loads the content an assignment or ledger reference points at.
// Returns nil when the content no longer exists.
func (h *Moderation) resolveRef(ref models.ContentRef) (*queueItem, error) {
	item := queueItem{ContentType: ref.Type, ContentID: ref.ID}
	switch ref.Type {
	case models.ContentTypeBlog:
		blog, err := h.blogStore.FindByID(ref.ID)
		if err != nil {
			return nil, err
		}
		if blog == nil {
			return nil, nil
		}
		item.Blog = blog
	case models.ContentTypeTravsnap:
		snap, err := h.snapStore.FindByID(ref.ID)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, nil
		}
		item.Travsnap = snap
	default:
		return nil, nil
	}
	return &item, nil
}

func (h *Moderation) resolveRefs(refs []models.ContentRef) ([]queueItem, error) {
	items := make([]queueItem, 0, len(refs))
	for _, ref := range refs {
		item, err := h.resolveRef(ref)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}

// refFromURL parses the {type}/{id} pair from a moderation route.
func refFromURL(w http.ResponseWriter, r *http.Request) (models.ContentRef, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid content id")
		return models.ContentRef{}, false
	}
	ref, err := models.ParseContentRef(chi.URLParam(r, "type"), id)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown content type")
		return models.ContentRef{}, false
	}
	return ref, true
}
