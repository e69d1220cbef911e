package store

import (
	"database/sql"
	"fmt"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

const assignmentColumns = `id, moderator_id, content_type, content_id, is_active, created_at, updated_at`

// AssignmentStore handles moderator assignment rows. Like the ledger,
// assignments are superseded rather than edited: reassignment deactivates
// the old row and inserts a new one.
type AssignmentStore struct {
	db *sql.DB
}

// NewAssignmentStore creates a new AssignmentStore with the given database connection.
func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(row interface{ Scan(...any) error }) (*models.ModeratorAssignment, error) {
	a := &models.ModeratorAssignment{}
	err := row.Scan(
		&a.ID, &a.ModeratorID, &a.ContentType, &a.ContentID,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Insert appends an active assignment. Callers must deactivate any prior
// active assignment first; the partial unique index rejects a second
// active row.
func (s *AssignmentStore) Insert(q DBTX, moderatorID int64, ref models.ContentRef) (*models.ModeratorAssignment, error) {
	a, err := scanAssignment(q.QueryRow(`
		INSERT INTO moderator_assignments (moderator_id, content_type, content_id, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING `+assignmentColumns+`
	`, moderatorID, ref.Type, ref.ID))
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}

// DeactivateFor retires the active assignment for a content item.
// Returns the number of rows deactivated (0 or 1).
func (s *AssignmentStore) DeactivateFor(q DBTX, ref models.ContentRef) (int64, error) {
	res, err := q.Exec(`
		UPDATE moderator_assignments
		SET is_active = FALSE, updated_at = NOW()
		WHERE content_type = $1 AND content_id = $2 AND is_active
	`, ref.Type, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("deactivate assignments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate assignments: %w", err)
	}
	return n, nil
}

// ActiveFor returns the active assignment for a content item, or nil when
// the item is unassigned.
func (s *AssignmentStore) ActiveFor(q DBTX, ref models.ContentRef) (*models.ModeratorAssignment, error) {
	a, err := scanAssignment(q.QueryRow(`
		SELECT `+assignmentColumns+` FROM moderator_assignments
		WHERE content_type = $1 AND content_id = $2 AND is_active
	`, ref.Type, ref.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active assignment: %w", err)
	}
	return a, nil
}

// ListActiveByModerator returns the content refs currently assigned to a
// moderator, oldest assignment first.
func (s *AssignmentStore) ListActiveByModerator(moderatorID int64) ([]models.ModeratorAssignment, error) {
	rows, err := s.db.Query(`
		SELECT `+assignmentColumns+` FROM moderator_assignments
		WHERE moderator_id = $1 AND is_active
		ORDER BY created_at ASC, id ASC
	`, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("list assignments by moderator: %w", err)
	}
	return collectAssignments(rows)
}

// HistoryFor returns every assignment row for a content item, newest first.
func (s *AssignmentStore) HistoryFor(ref models.ContentRef) ([]models.ModeratorAssignment, error) {
	rows, err := s.db.Query(`
		SELECT `+assignmentColumns+` FROM moderator_assignments
		WHERE content_type = $1 AND content_id = $2
		ORDER BY created_at DESC, id DESC
	`, ref.Type, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("assignment history: %w", err)
	}
	return collectAssignments(rows)
}

func collectAssignments(rows *sql.Rows) ([]models.ModeratorAssignment, error) {
	defer rows.Close()
	var assignments []models.ModeratorAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// UnassignedPendingBlogs returns pending blogs with no active assignment,
// oldest first.
func (s *AssignmentStore) UnassignedPendingBlogs() ([]models.Blog, error) {
	rows, err := s.db.Query(`
		SELECT ` + blogColumns + ` FROM blogs b
		WHERE b.status = 'pending' AND NOT EXISTS (
			SELECT 1 FROM moderator_assignments a
			WHERE a.content_type = 'blog' AND a.content_id = b.id AND a.is_active
		)
		ORDER BY b.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("unassigned pending blogs: %w", err)
	}
	return collectBlogs(rows)
}

// UnassignedPendingTravsnaps returns pending travsnaps with no active
// assignment, oldest first.
func (s *AssignmentStore) UnassignedPendingTravsnaps() ([]models.Travsnap, error) {
	rows, err := s.db.Query(`
		SELECT ` + travsnapColumns + ` FROM travsnaps t
		WHERE t.status = 'pending' AND NOT EXISTS (
			SELECT 1 FROM moderator_assignments a
			WHERE a.content_type = 'travsnap' AND a.content_id = t.id AND a.is_active
		)
		ORDER BY t.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("unassigned pending travsnaps: %w", err)
	}
	return collectTravsnaps(rows)
}
