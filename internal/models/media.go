package models

import "time"

// Media represents an uploaded gallery file stored in object storage,
// attached polymorphically to a blog or travsnap.
type Media struct {
	ID          int64       `json:"id"`
	ContentType ContentType `json:"content_type"`
	ContentID   int64       `json:"content_id"`
	ObjectKey   string      `json:"object_key"`
	ThumbKey    *string     `json:"thumb_key,omitempty"`
	URL         string      `json:"url"`
	MimeType    string      `json:"mime_type"`
	Size        int64       `json:"size"`
	CreatedAt   time.Time   `json:"created_at"`
}
