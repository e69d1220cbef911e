package models

import (
	"encoding/json"
	"time"
)

// Travsnap represents a photo post: a titled gallery pinned to a location.
// Travsnaps are born pending; creation and submission are one step.
type Travsnap struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	ModerationID *int64          `json:"moderation_id,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Location     json.RawMessage `json:"location"`
	Gallery      json.RawMessage `json:"gallery"`
	Status       ContentStatus   `json:"status"`
	IsFeatured   bool            `json:"is_featured"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Ref returns the polymorphic reference for this travsnap.
func (t *Travsnap) Ref() ContentRef {
	return TravsnapRef(t.ID)
}

// IsApproved returns true if the travsnap has passed moderation.
func (t *Travsnap) IsApproved() bool {
	return t.Status == ContentStatusApproved
}
