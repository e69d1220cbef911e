package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

const travsnapColumns = `id, user_id, moderation_id, title, description, location, gallery, status, is_featured, is_active, created_at, updated_at`

// TravsnapStore handles all travsnap-related database operations.
type TravsnapStore struct {
	db *sql.DB
}

// NewTravsnapStore creates a new TravsnapStore with the given database connection.
func NewTravsnapStore(db *sql.DB) *TravsnapStore {
	return &TravsnapStore{db: db}
}

func scanTravsnap(row interface{ Scan(...any) error }) (*models.Travsnap, error) {
	t := &models.Travsnap{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.ModerationID, &t.Title, &t.Description,
		&t.Location, &t.Gallery, &t.Status, &t.IsFeatured, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTravsnapParams carries the author-supplied fields for a new travsnap.
type CreateTravsnapParams struct {
	UserID      int64
	Title       string
	Description string
	Location    json.RawMessage
	Gallery     json.RawMessage
}

// Create inserts a new travsnap. Travsnaps start life pending; there is no
// draft state for photo posts.
func (s *TravsnapStore) Create(p CreateTravsnapParams) (*models.Travsnap, error) {
	if p.Location == nil {
		p.Location = json.RawMessage(`{}`)
	}
	if p.Gallery == nil {
		p.Gallery = json.RawMessage(`[]`)
	}
	t, err := scanTravsnap(s.db.QueryRow(`
		INSERT INTO travsnaps (user_id, title, description, location, gallery, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING `+travsnapColumns+`
	`, p.UserID, p.Title, p.Description, p.Location, p.Gallery))
	if err != nil {
		return nil, fmt.Errorf("create travsnap: %w", err)
	}
	return t, nil
}

// FindByID retrieves a travsnap by id. Returns nil if not found.
func (s *TravsnapStore) FindByID(id int64) (*models.Travsnap, error) {
	t, err := scanTravsnap(s.db.QueryRow(`
		SELECT `+travsnapColumns+` FROM travsnaps WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find travsnap by id: %w", err)
	}
	return t, nil
}

// FindByIDForUpdate retrieves a travsnap inside a transaction, locking the
// row until commit. Returns nil if not found.
func (s *TravsnapStore) FindByIDForUpdate(q DBTX, id int64) (*models.Travsnap, error) {
	t, err := scanTravsnap(q.QueryRow(`
		SELECT `+travsnapColumns+` FROM travsnaps WHERE id = $1 FOR UPDATE
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find travsnap for update: %w", err)
	}
	return t, nil
}

// ListApproved returns approved, active travsnaps, newest first, with paging.
func (s *TravsnapStore) ListApproved(limit, offset int) ([]models.Travsnap, error) {
	rows, err := s.db.Query(`
		SELECT `+travsnapColumns+` FROM travsnaps
		WHERE status = 'approved' AND is_active
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list approved travsnaps: %w", err)
	}
	return collectTravsnaps(rows)
}

// ListByUser returns all travsnaps by one author, newest first.
func (s *TravsnapStore) ListByUser(userID int64) ([]models.Travsnap, error) {
	rows, err := s.db.Query(`
		SELECT `+travsnapColumns+` FROM travsnaps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list travsnaps by user: %w", err)
	}
	return collectTravsnaps(rows)
}

// ListByStatus returns all travsnaps in a given moderation state, oldest
// first so review queues drain in submission order.
func (s *TravsnapStore) ListByStatus(status models.ContentStatus) ([]models.Travsnap, error) {
	rows, err := s.db.Query(`
		SELECT `+travsnapColumns+` FROM travsnaps
		WHERE status = $1
		ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list travsnaps by status: %w", err)
	}
	return collectTravsnaps(rows)
}

func collectTravsnaps(rows *sql.Rows) ([]models.Travsnap, error) {
	defer rows.Close()
	var snaps []models.Travsnap
	for rows.Next() {
		t, err := scanTravsnap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan travsnap: %w", err)
		}
		snaps = append(snaps, *t)
	}
	return snaps, rows.Err()
}

// Update replaces the author-editable fields of a travsnap.
func (s *TravsnapStore) Update(id int64, p CreateTravsnapParams) (*models.Travsnap, error) {
	if p.Location == nil {
		p.Location = json.RawMessage(`{}`)
	}
	if p.Gallery == nil {
		p.Gallery = json.RawMessage(`[]`)
	}
	t, err := scanTravsnap(s.db.QueryRow(`
		UPDATE travsnaps
		SET title = $1, description = $2, location = $3, gallery = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+travsnapColumns+`
	`, p.Title, p.Description, p.Location, p.Gallery, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update travsnap: %w", err)
	}
	return t, nil
}

// UpdateStatus moves a travsnap to a new moderation state on a DBTX so the
// workflow can apply it inside the decision transaction.
func (s *TravsnapStore) UpdateStatus(q DBTX, id int64, status models.ContentStatus) error {
	res, err := q.Exec(`
		UPDATE travsnaps SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update travsnap status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetModerationID points a travsnap at its current active ledger entry.
func (s *TravsnapStore) SetModerationID(q DBTX, id, moderationID int64) error {
	_, err := q.Exec(`
		UPDATE travsnaps SET moderation_id = $1, updated_at = NOW() WHERE id = $2
	`, moderationID, id)
	if err != nil {
		return fmt.Errorf("set travsnap moderation id: %w", err)
	}
	return nil
}

// SetActive flips soft visibility on a travsnap without touching its
// moderation state.
func (s *TravsnapStore) SetActive(id int64, active bool) error {
	_, err := s.db.Exec(`
		UPDATE travsnaps SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return fmt.Errorf("set travsnap active: %w", err)
	}
	return nil
}

// SetFeatured flips the featured flag on a travsnap.
func (s *TravsnapStore) SetFeatured(id int64, featured bool) error {
	_, err := s.db.Exec(`
		UPDATE travsnaps SET is_featured = $1, updated_at = NOW() WHERE id = $2
	`, featured, id)
	if err != nil {
		return fmt.Errorf("set travsnap featured: %w", err)
	}
	return nil
}

// Delete removes a travsnap.
func (s *TravsnapStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM travsnaps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete travsnap: %w", err)
	}
	return nil
}
