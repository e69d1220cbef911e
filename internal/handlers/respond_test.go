package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/moderation"
)

func TestRespondWorkflowError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", moderation.ErrNotFound, 404},
		{"wrapped not found", errors.Join(errors.New("lookup"), moderation.ErrNotFound), 404},
		{"unauthorized", moderation.ErrUnauthorized, 403},
		{"state transition", moderation.ErrInvalidStateTransition, 409},
		{"invalid moderator", moderation.ErrInvalidModerator, 422},
		{"validation", &moderation.ValidationError{Message: "rejection reason is required"}, 422},
		{"unknown", errors.New("connection reset"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWorkflowError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestRespondWorkflowErrorValidationMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWorkflowError(rec, &moderation.ValidationError{Message: "rejection reason is required"})
	if !strings.Contains(rec.Body.String(), "rejection reason is required") {
		t.Errorf("validation message not surfaced: %s", rec.Body.String())
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"x","bogus":1}`))
	var dst struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(req, &dst); err == nil {
		t.Error("unknown field accepted")
	}
}
