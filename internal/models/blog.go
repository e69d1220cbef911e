package models

import (
	"encoding/json"
	"time"
)

// Blog represents a long-form destination article. The body is Markdown;
// the public read path renders it to HTML. Categories, location, and
// gallery are stored as JSONB columns.
type Blog struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	ModerationID *int64          `json:"moderation_id,omitempty"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Content      string          `json:"content"`
	Categories   json.RawMessage `json:"categories"`
	Location     json.RawMessage `json:"location,omitempty"`
	Image        *string         `json:"image,omitempty"`
	Gallery      json.RawMessage `json:"gallery,omitempty"`
	Status       ContentStatus   `json:"status"`
	Views        int             `json:"views"`
	IsFeatured   bool            `json:"is_featured"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Ref returns the polymorphic reference for this blog.
func (b *Blog) Ref() ContentRef {
	return BlogRef(b.ID)
}

// IsApproved returns true if the blog has passed moderation.
func (b *Blog) IsApproved() bool {
	return b.Status == ContentStatusApproved
}
