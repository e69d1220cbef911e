package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

const blogColumns = `id, user_id, moderation_id, title, slug, description, content, categories, location, image, gallery, status, views, is_featured, created_at, updated_at`

// BlogStore handles all blog-related database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

func scanBlog(row interface{ Scan(...any) error }) (*models.Blog, error) {
	b := &models.Blog{}
	err := row.Scan(
		&b.ID, &b.UserID, &b.ModerationID, &b.Title, &b.Slug, &b.Description,
		&b.Content, &b.Categories, &b.Location, &b.Image, &b.Gallery,
		&b.Status, &b.Views, &b.IsFeatured, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBlogParams carries the author-supplied fields for a new blog.
type CreateBlogParams struct {
	UserID      int64
	Title       string
	Slug        string
	Description string
	Content     string
	Categories  json.RawMessage
	Location    json.RawMessage
	Image       *string
	Gallery     json.RawMessage
}

// defaults fills the JSONB fields the client may omit. The columns are
// NOT NULL, so an explicit empty document stands in for "not provided".
func (p *CreateBlogParams) defaults() {
	if p.Categories == nil {
		p.Categories = json.RawMessage(`[]`)
	}
	if p.Location == nil {
		p.Location = json.RawMessage(`{}`)
	}
	if p.Gallery == nil {
		p.Gallery = json.RawMessage(`[]`)
	}
}

// Create inserts a new blog in draft state.
func (s *BlogStore) Create(p CreateBlogParams) (*models.Blog, error) {
	p.defaults()
	b, err := scanBlog(s.db.QueryRow(`
		INSERT INTO blogs (user_id, title, slug, description, content, categories, location, image, gallery, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'draft')
		RETURNING `+blogColumns+`
	`, p.UserID, p.Title, p.Slug, p.Description, p.Content, p.Categories, p.Location, p.Image, p.Gallery))
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return b, nil
}

// FindByID retrieves a blog by id. Returns nil if not found.
func (s *BlogStore) FindByID(id int64) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRow(`
		SELECT `+blogColumns+` FROM blogs WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// FindByIDForUpdate retrieves a blog inside a transaction, locking the row
// until commit. Returns nil if not found.
func (s *BlogStore) FindByIDForUpdate(q DBTX, id int64) (*models.Blog, error) {
	b, err := scanBlog(q.QueryRow(`
		SELECT `+blogColumns+` FROM blogs WHERE id = $1 FOR UPDATE
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog for update: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a blog by its slug. Returns nil if not found.
func (s *BlogStore) FindBySlug(slug string) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRow(`
		SELECT `+blogColumns+` FROM blogs WHERE slug = $1
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return b, nil
}

// ListApproved returns approved blogs, newest first, with limit/offset paging.
func (s *BlogStore) ListApproved(limit, offset int) ([]models.Blog, error) {
	rows, err := s.db.Query(`
		SELECT `+blogColumns+` FROM blogs
		WHERE status = 'approved'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list approved blogs: %w", err)
	}
	return collectBlogs(rows)
}

// ListByUser returns all blogs by one author, newest first.
func (s *BlogStore) ListByUser(userID int64) ([]models.Blog, error) {
	rows, err := s.db.Query(`
		SELECT `+blogColumns+` FROM blogs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list blogs by user: %w", err)
	}
	return collectBlogs(rows)
}

// ListByStatus returns all blogs in a given moderation state, oldest first
// so review queues drain in submission order.
func (s *BlogStore) ListByStatus(status models.ContentStatus) ([]models.Blog, error) {
	rows, err := s.db.Query(`
		SELECT `+blogColumns+` FROM blogs
		WHERE status = $1
		ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list blogs by status: %w", err)
	}
	return collectBlogs(rows)
}

// ListFeatured returns approved blogs pinned to the featured rail.
func (s *BlogStore) ListFeatured(limit int) ([]models.Blog, error) {
	rows, err := s.db.Query(`
		SELECT `+blogColumns+` FROM blogs
		WHERE status = 'approved' AND is_featured
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured blogs: %w", err)
	}
	return collectBlogs(rows)
}

func collectBlogs(rows *sql.Rows) ([]models.Blog, error) {
	defer rows.Close()
	var blogs []models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

// Update replaces the author-editable fields of a blog.
func (s *BlogStore) Update(id int64, p CreateBlogParams) (*models.Blog, error) {
	p.defaults()
	b, err := scanBlog(s.db.QueryRow(`
		UPDATE blogs
		SET title = $1, slug = $2, description = $3, content = $4,
		    categories = $5, location = $6, image = $7, gallery = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING `+blogColumns+`
	`, p.Title, p.Slug, p.Description, p.Content, p.Categories, p.Location, p.Image, p.Gallery, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return b, nil
}

// UpdateStatus moves a blog to a new moderation state. Runs on a DBTX so
// the workflow can apply it inside the decision transaction.
func (s *BlogStore) UpdateStatus(q DBTX, id int64, status models.ContentStatus) error {
	res, err := q.Exec(`
		UPDATE blogs SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("update blog status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetModerationID points a blog at its current active ledger entry.
func (s *BlogStore) SetModerationID(q DBTX, id, moderationID int64) error {
	_, err := q.Exec(`
		UPDATE blogs SET moderation_id = $1, updated_at = NOW() WHERE id = $2
	`, moderationID, id)
	if err != nil {
		return fmt.Errorf("set blog moderation id: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter on the public read path.
func (s *BlogStore) IncrementViews(id int64) error {
	_, err := s.db.Exec(`UPDATE blogs SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment blog views: %w", err)
	}
	return nil
}

// SetFeatured flips the featured flag on a blog.
func (s *BlogStore) SetFeatured(id int64, featured bool) error {
	_, err := s.db.Exec(`
		UPDATE blogs SET is_featured = $1, updated_at = NOW() WHERE id = $2
	`, featured, id)
	if err != nil {
		return fmt.Errorf("set blog featured: %w", err)
	}
	return nil
}

// Delete removes a blog. Likes and bookmarks cascade at the database level.
func (s *BlogStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}
