package moderation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

// FeedInvalidator drops cached public feeds after a terminal decision so
// approved content shows up without waiting for TTL expiry.
type FeedInvalidator interface {
	InvalidateFeed(ctx context.Context, contentType models.ContentType) error
}

// Workflow owns the moderation state machine. Every decision runs as one
// transaction: content status, ledger supersede, and assignment changes
// commit together or not at all. The status re-read happens under a row
// lock, so when two moderators race the loser observes the terminal state
// and fails with ErrInvalidStateTransition.
type Workflow struct {
	db          *sql.DB
	blogs       *store.BlogStore
	travsnaps   *store.TravsnapStore
	ledger      *store.ModerationStore
	assignments *store.AssignmentStore
	users       *store.UserStore
	resolver    DefaultModeratorResolver
	feeds       FeedInvalidator
	logger      *slog.Logger
}

// New creates a Workflow. feeds may be nil when no cache is wired.
func New(
	db *sql.DB,
	blogs *store.BlogStore,
	travsnaps *store.TravsnapStore,
	ledger *store.ModerationStore,
	assignments *store.AssignmentStore,
	users *store.UserStore,
	resolver DefaultModeratorResolver,
	feeds FeedInvalidator,
	logger *slog.Logger,
) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		db:          db,
		blogs:       blogs,
		travsnaps:   travsnaps,
		ledger:      ledger,
		assignments: assignments,
		users:       users,
		resolver:    resolver,
		feeds:       feeds,
		logger:      logger,
	}
}

// lockContent reads the content row under FOR UPDATE, holding the lock
// until the enclosing transaction finishes. Returns ErrNotFound when the
// ref does not resolve.
func (w *Workflow) lockContent(tx store.DBTX, ref models.ContentRef) (models.ContentStatus, error) {
	switch ref.Type {
	case models.ContentTypeBlog:
		b, err := w.blogs.FindByIDForUpdate(tx, ref.ID)
		if err != nil {
			return "", err
		}
		if b == nil {
			return "", ErrNotFound
		}
		return b.Status, nil
	case models.ContentTypeTravsnap:
		t, err := w.travsnaps.FindByIDForUpdate(tx, ref.ID)
		if err != nil {
			return "", err
		}
		if t == nil {
			return "", ErrNotFound
		}
		return t.Status, nil
	}
	return "", ErrNotFound
}

func (w *Workflow) setStatus(tx store.DBTX, ref models.ContentRef, status models.ContentStatus) error {
	switch ref.Type {
	case models.ContentTypeBlog:
		return w.blogs.UpdateStatus(tx, ref.ID, status)
	case models.ContentTypeTravsnap:
		return w.travsnaps.UpdateStatus(tx, ref.ID, status)
	}
	return ErrNotFound
}

func (w *Workflow) setModerationID(tx store.DBTX, ref models.ContentRef, moderationID int64) error {
	switch ref.Type {
	case models.ContentTypeBlog:
		return w.blogs.SetModerationID(tx, ref.ID, moderationID)
	case models.ContentTypeTravsnap:
		return w.travsnaps.SetModerationID(tx, ref.ID, moderationID)
	}
	return ErrNotFound
}

// supersede retires the active ledger entry (if any) and appends a new
// active one, then refreshes the content row's moderation_id pointer.
func (w *Workflow) supersede(tx store.DBTX, p store.InsertParams) (*models.ModerationRecord, error) {
	if _, err := w.ledger.DeactivateFor(tx, p.Ref); err != nil {
		return nil, err
	}
	rec, err := w.ledger.Insert(tx, p)
	if err != nil {
		return nil, err
	}
	if err := w.setModerationID(tx, p.Ref, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Submit moves a content item into the review queue. The ledger gets a
// pending entry attributed to the default moderator, who also receives the
// assignment; when no default moderator exists the entry falls back to the
// creator and the item stays unassigned. Submitting twice appends a second
// ledger entry, each an audit event, but only one stays active.
func (w *Workflow) Submit(ctx context.Context, ref models.ContentRef, creatorID int64) error {
	if !ref.Valid() {
		return ErrNotFound
	}

	// Small, slowly-changing read; no need to hold it inside the tx.
	defaultMod, err := w.resolver.DefaultModerator()
	if err != nil {
		return fmt.Errorf("resolve default moderator: %w", err)
	}

	ledgerModeratorID := creatorID
	if defaultMod != nil {
		ledgerModeratorID = defaultMod.ID
	} else {
		w.logger.Warn("no default moderator available, attributing submission to creator",
			"content", ref.String(), "creator_id", creatorID)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submit tx: %w", err)
	}
	defer tx.Rollback()

	status, err := w.lockContent(tx, ref)
	if err != nil {
		return err
	}
	if status.IsTerminal() {
		return ErrInvalidStateTransition
	}

	if err := w.setStatus(tx, ref, models.ContentStatusPending); err != nil {
		return err
	}
	if _, err := w.supersede(tx, store.InsertParams{
		Ref:         ref,
		ModeratorID: ledgerModeratorID,
		Status:      models.ContentStatusPending,
	}); err != nil {
		return err
	}

	if defaultMod != nil {
		if _, err := w.assignments.DeactivateFor(tx, ref); err != nil {
			return err
		}
		if _, err := w.assignments.Insert(tx, defaultMod.ID, ref); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submit tx: %w", err)
	}

	w.logger.Info("content submitted for review",
		"content", ref.String(), "creator_id", creatorID, "moderator_id", ledgerModeratorID)
	return nil
}

// Approve publishes a pending content item. The acting moderator must have
// moderator capability and, unless they are a superAdmin, hold the active
// assignment for the item.
func (w *Workflow) Approve(ctx context.Context, ref models.ContentRef, moderatorID int64, notes string) error {
	now := time.Now()
	return w.decide(ctx, ref, moderatorID, store.InsertParams{
		Ref:            ref,
		ModeratorID:    moderatorID,
		Status:         models.ContentStatusApproved,
		ModeratorNotes: optional(notes),
		PublishedAt:    &now,
	})
}

// Reject declines a pending content item. The reason is mandatory and
// bounded; it lands on the ledger entry for the author to read.
func (w *Workflow) Reject(ctx context.Context, ref models.ContentRef, moderatorID int64, reason, notes string) error {
	if err := validateReason(reason); err != nil {
		return err
	}
	now := time.Now()
	return w.decide(ctx, ref, moderatorID, store.InsertParams{
		Ref:             ref,
		ModeratorID:     moderatorID,
		Status:          models.ContentStatusRejected,
		ModeratorNotes:  optional(notes),
		RejectionReason: &reason,
		RejectedAt:      &now,
	})
}

// decide is the shared terminal-transition path for Approve and Reject.
func (w *Workflow) decide(ctx context.Context, ref models.ContentRef, moderatorID int64, params store.InsertParams) error {
	if !ref.Valid() {
		return ErrNotFound
	}

	moderator, err := w.users.FindByID(moderatorID)
	if err != nil {
		return fmt.Errorf("load moderator: %w", err)
	}
	if moderator == nil {
		return ErrNotFound
	}
	if !moderator.HasModeratorCapability() {
		return ErrUnauthorized
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin decision tx: %w", err)
	}
	defer tx.Rollback()

	status, err := w.lockContent(tx, ref)
	if err != nil {
		return err
	}

	// Terminal state wins over scoping: a moderator whose assignment was
	// retired by an earlier decision sees the state conflict, not a
	// permission error.
	if status != models.ContentStatusPending {
		return ErrInvalidStateTransition
	}

	// Assignment scoping: a plain admin may only act on content assigned
	// to them. Checked under the row lock so a concurrent reassignment
	// cannot slip between check and write.
	if !moderator.IsSuperAdmin() {
		assignment, err := w.assignments.ActiveFor(tx, ref)
		if err != nil {
			return err
		}
		if assignment == nil || assignment.ModeratorID != moderatorID {
			return ErrUnauthorized
		}
	}

	if err := w.setStatus(tx, ref, params.Status); err != nil {
		return err
	}
	if _, err := w.supersede(tx, params); err != nil {
		return err
	}
	if _, err := w.assignments.DeactivateFor(tx, ref); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit decision tx: %w", err)
	}

	w.logger.Info("moderation decision recorded",
		"content", ref.String(), "status", string(params.Status), "moderator_id", moderatorID)

	if w.feeds != nil {
		if err := w.feeds.InvalidateFeed(ctx, ref.Type); err != nil {
			w.logger.Warn("feed cache invalidation failed", "content_type", string(ref.Type), "error", err)
		}
	}
	return nil
}

// Assign routes a content item to a moderator. Only a superAdmin may
// assign; the target must have moderator capability. Any existing active
// assignment is superseded, so reassignment is the same operation.
func (w *Workflow) Assign(ctx context.Context, ref models.ContentRef, newModeratorID, actingUserID int64) (*models.ModeratorAssignment, error) {
	if !ref.Valid() {
		return nil, ErrNotFound
	}

	acting, err := w.users.FindByID(actingUserID)
	if err != nil {
		return nil, fmt.Errorf("load acting user: %w", err)
	}
	if acting == nil {
		return nil, ErrNotFound
	}
	if !acting.IsSuperAdmin() {
		return nil, ErrUnauthorized
	}

	target, err := w.users.FindByID(newModeratorID)
	if err != nil {
		return nil, fmt.Errorf("load target moderator: %w", err)
	}
	if target == nil {
		return nil, ErrNotFound
	}
	if !target.HasModeratorCapability() {
		return nil, ErrInvalidModerator
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assign tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := w.lockContent(tx, ref); err != nil {
		return nil, err
	}
	if _, err := w.assignments.DeactivateFor(tx, ref); err != nil {
		return nil, err
	}
	assignment, err := w.assignments.Insert(tx, newModeratorID, ref)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign tx: %w", err)
	}

	w.logger.Info("content assigned",
		"content", ref.String(), "moderator_id", newModeratorID, "assigned_by", actingUserID)
	return assignment, nil
}

// PendingFor returns the refs of pending content currently assigned to a
// moderator. Assignments outlive the pending window until a terminal
// decision deactivates them, but are only actionable while pending.
func (w *Workflow) PendingFor(ctx context.Context, moderatorID int64) ([]models.ContentRef, error) {
	assignments, err := w.assignments.ListActiveByModerator(moderatorID)
	if err != nil {
		return nil, err
	}

	var refs []models.ContentRef
	for _, a := range assignments {
		status, err := w.contentStatus(a.Ref())
		if err != nil {
			return nil, err
		}
		if status == models.ContentStatusPending {
			refs = append(refs, a.Ref())
		}
	}
	return refs, nil
}

// UnassignedPending returns pending content with no active assignment.
// SuperAdmin-only view; the caller enforces that.
func (w *Workflow) UnassignedPending(ctx context.Context) ([]models.ContentRef, error) {
	blogs, err := w.assignments.UnassignedPendingBlogs()
	if err != nil {
		return nil, err
	}
	snaps, err := w.assignments.UnassignedPendingTravsnaps()
	if err != nil {
		return nil, err
	}

	refs := make([]models.ContentRef, 0, len(blogs)+len(snaps))
	for _, b := range blogs {
		refs = append(refs, b.Ref())
	}
	for _, t := range snaps {
		refs = append(refs, t.Ref())
	}
	return refs, nil
}

// HistoryFor returns the full ledger for a content item, newest first.
func (w *Workflow) HistoryFor(ctx context.Context, ref models.ContentRef) ([]models.ModerationRecord, error) {
	if !ref.Valid() {
		return nil, ErrNotFound
	}
	return w.ledger.HistoryFor(ref)
}

// ActiveAssigneeFor returns the active assignment for a content item, or
// nil when it is unassigned.
func (w *Workflow) ActiveAssigneeFor(ctx context.Context, ref models.ContentRef) (*models.ModeratorAssignment, error) {
	if !ref.Valid() {
		return nil, ErrNotFound
	}
	return w.assignments.ActiveFor(w.db, ref)
}

func (w *Workflow) contentStatus(ref models.ContentRef) (models.ContentStatus, error) {
	switch ref.Type {
	case models.ContentTypeBlog:
		b, err := w.blogs.FindByID(ref.ID)
		if err != nil {
			return "", err
		}
		if b == nil {
			return "", ErrNotFound
		}
		return b.Status, nil
	case models.ContentTypeTravsnap:
		t, err := w.travsnaps.FindByID(ref.ID)
		if err != nil {
			return "", err
		}
		if t == nil {
			return "", ErrNotFound
		}
		return t.Status, nil
	}
	return "", ErrNotFound
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
