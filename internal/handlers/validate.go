package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for content fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 1_000
	maxBodyLen        = 100_000
	maxNotesLen       = 2_000
)

// validateBlogInput checks blog create/update inputs and returns the first
// error found, or "" when valid.
func validateBlogInput(title, description, content string) string {
	if msg := validateTitle(title); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateTravsnapInput checks travsnap create/update inputs.
func validateTravsnapInput(title, description string) string {
	if msg := validateTitle(title); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	return ""
}

func validateTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	return ""
}

// validateNotes bounds optional moderator notes.
func validateNotes(notes string) string {
	if utf8.RuneCountInString(notes) > maxNotesLen {
		return "Notes are too long (max 2,000 characters)."
	}
	return ""
}

// validateRegistration checks signup inputs.
func validateRegistration(name, email, password string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if !strings.Contains(email, "@") || len(email) > 254 {
		return "A valid email address is required."
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters."
	}
	return ""
}
