package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

const moderationColumns = `id, content_type, content_id, moderator_id, status, moderator_notes, rejection_reason, published_at, rejected_at, is_active, created_at, updated_at`

// ModerationStore handles the moderation ledger. Ledger rows are appended
// and superseded, never edited in place; write methods take a DBTX so the
// workflow can run deactivate-then-insert atomically with the content
// status change.
type ModerationStore struct {
	db *sql.DB
}

// NewModerationStore creates a new ModerationStore with the given database connection.
func NewModerationStore(db *sql.DB) *ModerationStore {
	return &ModerationStore{db: db}
}

func scanModeration(row interface{ Scan(...any) error }) (*models.ModerationRecord, error) {
	m := &models.ModerationRecord{}
	err := row.Scan(
		&m.ID, &m.ContentType, &m.ContentID, &m.ModeratorID, &m.Status,
		&m.ModeratorNotes, &m.RejectionReason, &m.PublishedAt, &m.RejectedAt,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// InsertParams carries the fields for a new ledger entry.
type InsertParams struct {
	Ref             models.ContentRef
	ModeratorID     int64
	Status          models.ContentStatus
	ModeratorNotes  *string
	RejectionReason *string
	PublishedAt     *time.Time
	RejectedAt      *time.Time
}

// Insert appends an active ledger entry. Callers must deactivate any prior
// active entry first; the partial unique index rejects a second active row.
func (s *ModerationStore) Insert(q DBTX, p InsertParams) (*models.ModerationRecord, error) {
	m, err := scanModeration(q.QueryRow(`
		INSERT INTO moderation_records
			(content_type, content_id, moderator_id, status, moderator_notes, rejection_reason, published_at, rejected_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING `+moderationColumns+`
	`, p.Ref.Type, p.Ref.ID, p.ModeratorID, p.Status, p.ModeratorNotes, p.RejectionReason, p.PublishedAt, p.RejectedAt))
	if err != nil {
		return nil, fmt.Errorf("insert moderation record: %w", err)
	}
	return m, nil
}

// DeactivateFor retires the active ledger entry for a content item.
// Returns the number of rows deactivated (0 or 1).
func (s *ModerationStore) DeactivateFor(q DBTX, ref models.ContentRef) (int64, error) {
	res, err := q.Exec(`
		UPDATE moderation_records
		SET is_active = FALSE, updated_at = NOW()
		WHERE content_type = $1 AND content_id = $2 AND is_active
	`, ref.Type, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("deactivate moderation records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate moderation records: %w", err)
	}
	return n, nil
}

// ActiveFor returns the active ledger entry for a content item, or nil
// when none exists.
func (s *ModerationStore) ActiveFor(q DBTX, ref models.ContentRef) (*models.ModerationRecord, error) {
	m, err := scanModeration(q.QueryRow(`
		SELECT `+moderationColumns+` FROM moderation_records
		WHERE content_type = $1 AND content_id = $2 AND is_active
	`, ref.Type, ref.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active moderation record: %w", err)
	}
	return m, nil
}

// HistoryFor returns every ledger entry for a content item, newest first.
// The superseded rows are the audit trail.
func (s *ModerationStore) HistoryFor(ref models.ContentRef) ([]models.ModerationRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+moderationColumns+` FROM moderation_records
		WHERE content_type = $1 AND content_id = $2
		ORDER BY created_at DESC, id DESC
	`, ref.Type, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("moderation history: %w", err)
	}
	defer rows.Close()

	var records []models.ModerationRecord
	for rows.Next() {
		m, err := scanModeration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan moderation record: %w", err)
		}
		records = append(records, *m)
	}
	return records, rows.Err()
}

// ListByModerator returns the active ledger entries written by one
// moderator, newest first.
func (s *ModerationStore) ListByModerator(moderatorID int64) ([]models.ModerationRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+moderationColumns+` FROM moderation_records
		WHERE moderator_id = $1 AND is_active
		ORDER BY created_at DESC, id DESC
	`, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("list moderation records by moderator: %w", err)
	}
	defer rows.Close()

	var records []models.ModerationRecord
	for rows.Next() {
		m, err := scanModeration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan moderation record: %w", err)
		}
		records = append(records, *m)
	}
	return records, rows.Err()
}
