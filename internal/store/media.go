package store

import (
	"database/sql"
	"fmt"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

const mediaColumns = `id, content_type, content_id, object_key, thumb_key, url, mime_type, size, created_at`

// MediaStore tracks uploaded gallery objects and their storage keys.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

func scanMedia(row interface{ Scan(...any) error }) (*models.Media, error) {
	m := &models.Media{}
	err := row.Scan(
		&m.ID, &m.ContentType, &m.ContentID, &m.ObjectKey, &m.ThumbKey,
		&m.URL, &m.MimeType, &m.Size, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create records an uploaded object against a content item.
func (s *MediaStore) Create(ref models.ContentRef, objectKey string, thumbKey *string, url, mimeType string, size int64) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`
		INSERT INTO media (content_type, content_id, object_key, thumb_key, url, mime_type, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns+`
	`, ref.Type, ref.ID, objectKey, thumbKey, url, mimeType, size))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return m, nil
}

// ListFor returns the media attached to a content item, oldest first.
func (s *MediaStore) ListFor(ref models.ContentRef) ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+` FROM media
		WHERE content_type = $1 AND content_id = $2
		ORDER BY created_at ASC, id ASC
	`, ref.Type, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindByID retrieves a media row by id. Returns nil if not found.
func (s *MediaStore) FindByID(id int64) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`
		SELECT `+mediaColumns+` FROM media WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// Delete removes a media row. Object storage cleanup happens separately.
func (s *MediaStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
