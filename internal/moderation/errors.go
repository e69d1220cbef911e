// Package moderation implements the content review workflow: the
// pending/approved/rejected state machine, the append-and-supersede
// decision ledger, and moderator assignment routing.
package moderation

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxReasonLength bounds the rejection reason accepted from moderators.
const MaxReasonLength = 500

var (
	// ErrNotFound means a content id or moderator id did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the caller lacks moderator capability, or
	// lacks assignment-scoped authority over this specific item.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidStateTransition means the content was not pending when a
	// decision was attempted. It covers the double-decision race and
	// stale-client resubmission; callers must surface it, never retry.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidModerator means an assignment target does not have
	// moderator capability.
	ErrInvalidModerator = errors.New("invalid moderator")
)

// ValidationError reports malformed moderator input, such as a missing or
// oversized rejection reason.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validateReason enforces the mandatory, bounded rejection reason.
func validateReason(reason string) error {
	if reason == "" {
		return &ValidationError{Message: "rejection reason is required"}
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return &ValidationError{Message: fmt.Sprintf("rejection reason exceeds %d characters", MaxReasonLength)}
	}
	return nil
}
