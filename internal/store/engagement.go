package store

import (
	"database/sql"
	"fmt"
)

// EngagementStore handles likes and bookmarks on approved blogs. Both are
// idempotent toggles backed by composite-primary-key tables.
type EngagementStore struct {
	db *sql.DB
}

// NewEngagementStore creates a new EngagementStore with the given database connection.
func NewEngagementStore(db *sql.DB) *EngagementStore {
	return &EngagementStore{db: db}
}

// ToggleLike likes a blog if the user has not liked it, or removes the like
// if they have. Returns true when the blog ends up liked.
func (s *EngagementStore) ToggleLike(userID, blogID int64) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM blog_likes WHERE user_id = $1 AND blog_id = $2
	`, userID, blogID)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = s.db.Exec(`
		INSERT INTO blog_likes (user_id, blog_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, blogID)
	if err != nil {
		return false, fmt.Errorf("toggle like: %w", err)
	}
	return true, nil
}

// ToggleBookmark bookmarks a blog if the user has not bookmarked it, or
// removes the bookmark if they have. Returns true when the blog ends up
// bookmarked.
func (s *EngagementStore) ToggleBookmark(userID, blogID int64) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM blog_bookmarks WHERE user_id = $1 AND blog_id = $2
	`, userID, blogID)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}
	_, err = s.db.Exec(`
		INSERT INTO blog_bookmarks (user_id, blog_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, blogID)
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	return true, nil
}

// LikeCount returns the number of likes on a blog.
func (s *EngagementStore) LikeCount(blogID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM blog_likes WHERE blog_id = $1
	`, blogID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("like count: %w", err)
	}
	return n, nil
}

// HasLiked reports whether a user has liked a blog.
func (s *EngagementStore) HasLiked(userID, blogID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM blog_likes WHERE user_id = $1 AND blog_id = $2)
	`, userID, blogID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has liked: %w", err)
	}
	return exists, nil
}

// BookmarkedBlogIDs returns the ids of blogs the user has bookmarked,
// newest bookmark first.
func (s *EngagementStore) BookmarkedBlogIDs(userID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT blog_id FROM blog_bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
