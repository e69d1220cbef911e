// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/database"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with development defaults.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ceylonrover")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ceylonrover")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state so later migrations see the full FS again.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with a unique email and registers cleanup.
// Deleting the user cascades to their content, assignments, and ledger rows.
func createTestUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	email := fmt.Sprintf("%s-%s@test.ceylonrover.local", t.Name(), role)
	u, err := NewUserStore(db).Create("Test "+string(role), email, nil, "test-password-123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// createTestBlog inserts a draft blog for the given author and registers cleanup.
func createTestBlog(t *testing.T, db *sql.DB, userID int64) *models.Blog {
	t.Helper()

	slug := fmt.Sprintf("test-blog-%s-%d", t.Name(), userID)
	b, err := NewBlogStore(db).Create(CreateBlogParams{
		UserID:      userID,
		Title:       "Test Blog",
		Slug:        slug,
		Description: "A test blog",
		Content:     "# Test\n\nBody text.",
	})
	if err != nil {
		t.Fatalf("create test blog: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM moderation_records WHERE content_type = 'blog' AND content_id = $1", b.ID)
		db.Exec("DELETE FROM moderator_assignments WHERE content_type = 'blog' AND content_id = $1", b.ID)
		db.Exec("DELETE FROM blogs WHERE id = $1", b.ID)
	})
	return b
}

// createTestTravsnap inserts a pending travsnap for the given author and
// registers cleanup.
func createTestTravsnap(t *testing.T, db *sql.DB, userID int64) *models.Travsnap {
	t.Helper()

	ts, err := NewTravsnapStore(db).Create(CreateTravsnapParams{
		UserID:      userID,
		Title:       "Test Travsnap",
		Description: "A test photo post",
	})
	if err != nil {
		t.Fatalf("create test travsnap: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM moderation_records WHERE content_type = 'travsnap' AND content_id = $1", ts.ID)
		db.Exec("DELETE FROM moderator_assignments WHERE content_type = 'travsnap' AND content_id = $1", ts.ID)
		db.Exec("DELETE FROM travsnaps WHERE id = $1", ts.ID)
	})
	return ts
}
