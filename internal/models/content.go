package models

import "fmt"

// ContentType distinguishes the two moderated content variants. Ledger and
// assignment rows reference content polymorphically through this tag plus
// the content id, since blogs and travsnaps live in separate tables.
type ContentType string

const (
	ContentTypeBlog     ContentType = "blog"
	ContentTypeTravsnap ContentType = "travsnap"
)

// ContentStatus represents the moderation state of a content item.
// Blogs additionally pass through draft before submission; the moderation
// core only ever sees pending, approved, or rejected.
type ContentStatus string

const (
	ContentStatusDraft    ContentStatus = "draft"
	ContentStatusPending  ContentStatus = "pending"
	ContentStatusApproved ContentStatus = "approved"
	ContentStatusRejected ContentStatus = "rejected"
)

// IsTerminal returns true for statuses with no further transition.
func (s ContentStatus) IsTerminal() bool {
	return s == ContentStatusApproved || s == ContentStatusRejected
}

// ContentRef identifies a single moderated content item: a blog or a
// travsnap row. It is the only place content-type strings are interpreted;
// everything downstream carries the ref instead of comparing raw tags.
type ContentRef struct {
	Type ContentType `json:"content_type"`
	ID   int64       `json:"content_id"`
}

// BlogRef returns a ContentRef pointing at a blog row.
func BlogRef(id int64) ContentRef {
	return ContentRef{Type: ContentTypeBlog, ID: id}
}

// TravsnapRef returns a ContentRef pointing at a travsnap row.
func TravsnapRef(id int64) ContentRef {
	return ContentRef{Type: ContentTypeTravsnap, ID: id}
}

// ParseContentRef builds a ContentRef from a raw type tag and id,
// rejecting unknown tags and non-positive ids.
func ParseContentRef(typ string, id int64) (ContentRef, error) {
	ref := ContentRef{Type: ContentType(typ), ID: id}
	if !ref.Valid() {
		return ContentRef{}, fmt.Errorf("invalid content ref %q/%d", typ, id)
	}
	return ref, nil
}

// Valid reports whether the ref carries a known type tag and a positive id.
func (r ContentRef) Valid() bool {
	return (r.Type == ContentTypeBlog || r.Type == ContentTypeTravsnap) && r.ID > 0
}

// Table returns the content table this ref points into.
func (r ContentRef) Table() string {
	switch r.Type {
	case ContentTypeBlog:
		return "blogs"
	case ContentTypeTravsnap:
		return "travsnaps"
	}
	return ""
}

func (r ContentRef) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}
