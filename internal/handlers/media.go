package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/imaging"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/middleware"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/storage"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Media handles gallery uploads. storage may be nil when S3 is not
// configured; uploads then return 501.
type Media struct {
	mediaStore *store.MediaStore
	blogStore  *store.BlogStore
	snapStore  *store.TravsnapStore
	storage    *storage.Client
}

// NewMedia creates a new Media handler group.
func NewMedia(mediaStore *store.MediaStore, blogStore *store.BlogStore, snapStore *store.TravsnapStore, client *storage.Client) *Media {
	return &Media{mediaStore: mediaStore, blogStore: blogStore, snapStore: snapStore, storage: client}
}

// Upload accepts a multipart form with a "file" part plus "content_type"
// and "content_id" fields naming the content the upload belongs to. The
// caller must own that content. Images get a JPEG thumbnail alongside the
// original.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusNotImplemented, "object storage is not configured")
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	contentID, err := strconv.ParseInt(r.FormValue("content_id"), 10, 64)
	if err != nil || contentID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	ref, err := models.ParseContentRef(r.FormValue("content_type"), contentID)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "unknown content type")
		return
	}
	if ok := h.checkOwnership(w, ref, sess.UserID); !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable file")
		return
	}

	mimeType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "unsupported file type")
		return
	}

	key := objectKey(ref, ext)
	if err := h.storage.Upload(r.Context(), key, mimeType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("upload failed", "error", err, "key", key)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	var thumbKey *string
	if thumb, err := imaging.Thumbnail(data); err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "key", key, "filename", header.Filename)
	} else {
		tk := strings.TrimSuffix(key, ext) + "_thumb.jpg"
		if err := h.storage.Upload(r.Context(), tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
			slog.Warn("thumbnail upload failed", "error", err, "key", tk)
		} else {
			thumbKey = &tk
		}
	}

	media, err := h.mediaStore.Create(ref, key, thumbKey, h.storage.FileURL(key), mimeType, int64(len(data)))
	if err != nil {
		slog.Error("media record insert failed", "error", err, "key", key)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusCreated, media)
}

// List returns the media attached to one content item.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	ref, ok := refFromURL(w, r)
	if !ok {
		return
	}
	media, err := h.mediaStore.ListFor(ref)
	if err != nil {
		slog.Error("media list failed", "error", err, "ref", ref.String())
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, media)
}

func (h *Media) checkOwnership(w http.ResponseWriter, ref models.ContentRef, userID int64) bool {
	var ownerID int64
	switch ref.Type {
	case models.ContentTypeBlog:
		blog, err := h.blogStore.FindByID(ref.ID)
		if err != nil {
			slog.Error("blog lookup failed", "error", err, "blog_id", ref.ID)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return false
		}
		if blog == nil {
			respondError(w, http.StatusNotFound, "not found")
			return false
		}
		ownerID = blog.UserID
	case models.ContentTypeTravsnap:
		snap, err := h.snapStore.FindByID(ref.ID)
		if err != nil {
			slog.Error("travsnap lookup failed", "error", err, "travsnap_id", ref.ID)
			respondError(w, http.StatusInternalServerError, "internal server error")
			return false
		}
		if snap == nil {
			respondError(w, http.StatusNotFound, "not found")
			return false
		}
		ownerID = snap.UserID
	}
	if ownerID != userID {
		respondError(w, http.StatusForbidden, "not your content")
		return false
	}
	return true
}

// objectKey builds a collision-free storage key grouped by content and month.
func objectKey(ref models.ContentRef, ext string) string {
	return path.Join(
		string(ref.Type),
		time.Now().UTC().Format("2006/01"),
		fmt.Sprintf("%d_%s%s", ref.ID, uuid.NewString(), ext),
	)
}
