package models

import "time"

// ModerationRecord is one entry in the moderation ledger. Records are
// superseded, never edited: each new decision deactivates the previous
// active record and inserts a fresh one, leaving a full audit trail.
// At most one record per content item is active at a time.
type ModerationRecord struct {
	ID              int64         `json:"id"`
	ContentType     ContentType   `json:"content_type"`
	ContentID       int64         `json:"content_id"`
	ModeratorID     int64         `json:"moderator_id"`
	Status          ContentStatus `json:"status"`
	ModeratorNotes  *string       `json:"moderator_notes,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	RejectedAt      *time.Time    `json:"rejected_at,omitempty"`
	IsActive        bool          `json:"is_active"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Ref returns the polymorphic reference of the content this record governs.
func (m *ModerationRecord) Ref() ContentRef {
	return ContentRef{Type: m.ContentType, ID: m.ContentID}
}

// ModeratorAssignment routes a pending content item to a specific reviewer.
// At most one assignment per content item is active; reassignment
// deactivates the old row and inserts a new one.
type ModeratorAssignment struct {
	ID          int64       `json:"id"`
	ModeratorID int64       `json:"moderator_id"`
	ContentType ContentType `json:"content_type"`
	ContentID   int64       `json:"content_id"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Ref returns the polymorphic reference of the assigned content.
func (a *ModeratorAssignment) Ref() ContentRef {
	return ContentRef{Type: a.ContentType, ID: a.ContentID}
}
