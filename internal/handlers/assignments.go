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

// Assignments groups the superAdmin routing handlers: assigning reviewers
// and inspecting the unrouted backlog.
type Assignments struct {
	workflow  *moderation.Workflow
	userStore *store.UserStore
	blogStore *store.BlogStore
	snapStore *store.TravsnapStore
}

// NewAssignments creates a new Assignments handler group.
func NewAssignments(workflow *moderation.Workflow, userStore *store.UserStore, blogStore *store.BlogStore, snapStore *store.TravsnapStore) *Assignments {
	return &Assignments{workflow: workflow, userStore: userStore, blogStore: blogStore, snapStore: snapStore}
}

type assignRequest struct {
	ModeratorID int64  `json:"moderator_id"`
	ContentType string `json:"content_type"`
	ContentID   int64  `json:"content_id"`
}

// Assign routes a content item to a moderator, superseding any existing
// active assignment.
func (h *Assignments) Assign(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ref, err := models.ParseContentRef(req.ContentType, req.ContentID)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown content type")
		return
	}

	assignment, err := h.workflow.Assign(r.Context(), ref, req.ModeratorID, sess.UserID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}

// Unassigned lists pending content with no active assignment.
func (h *Assignments) Unassigned(w http.ResponseWriter, r *http.Request) {
	refs, err := h.workflow.UnassignedPending(r.Context())
	if err != nil {
		slog.Error("unassigned backlog failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	items, err := h.resolve(refs)
	if err != nil {
		slog.Error("unassigned backlog resolve failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Moderators lists every active moderator, superAdmins first.
func (h *Assignments) Moderators(w http.ResponseWriter, r *http.Request) {
	mods, err := h.userStore.ListModerators()
	if err != nil {
		slog.Error("moderator list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, mods)
}

// PendingFor lists the pending content currently routed to one moderator.
func (h *Assignments) PendingFor(w http.ResponseWriter, r *http.Request) {
	moderatorID, err := strconv.ParseInt(chi.URLParam(r, "moderatorId"), 10, 64)
	if err != nil || moderatorID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid moderator id")
		return
	}
	refs, err := h.workflow.PendingFor(r.Context(), moderatorID)
	if err != nil {
		slog.Error("moderator queue failed", "error", err, "moderator_id", moderatorID)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	items, err := h.resolve(refs)
	if err != nil {
		slog.Error("moderator queue resolve failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Assignments) resolve(refs []models.ContentRef) ([]queueItem, error) {
	items := make([]queueItem, 0, len(refs))
	for _, ref := range refs {
		item := queueItem{ContentType: ref.Type, ContentID: ref.ID}
		switch ref.Type {
		case models.ContentTypeBlog:
			blog, err := h.blogStore.FindByID(ref.ID)
			if err != nil {
				return nil, err
			}
			if blog == nil {
				continue
			}
			item.Blog = blog
		case models.ContentTypeTravsnap:
			snap, err := h.snapStore.FindByID(ref.ID)
			if err != nil {
				return nil, err
			}
			if snap == nil {
				continue
			}
			item.Travsnap = snap
		default:
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
