package store

import (
	"testing"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

func TestTravsnapStore_CreateStartsPending(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db, models.RoleUser)

	ts := createTestTravsnap(t, db, author.ID)
	if ts.Status != models.ContentStatusPending {
		t.Errorf("status = %q, want pending", ts.Status)
	}
	if !ts.IsActive {
		t.Error("new travsnap should be active")
	}
	if ts.ModerationID != nil {
		t.Error("new travsnap should have no moderation record yet")
	}
}

func TestTravsnapStore_Update(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db, models.RoleUser)
	ts := createTestTravsnap(t, db, author.ID)

	updated, err := NewTravsnapStore(db).Update(ts.ID, CreateTravsnapParams{
		UserID:      author.ID,
		Title:       "Nine Arches Bridge",
		Description: "Morning train crossing",
		Location:    []byte(`{"lat":6.8766,"lng":81.0588}`),
		Gallery:     []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Nine Arches Bridge" {
		t.Errorf("title = %q", updated.Title)
	}
	if string(updated.Location) == "{}" {
		t.Error("location not persisted")
	}
}

func TestTravsnapStore_ListApprovedSkipsInactive(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db, models.RoleUser)
	s := NewTravsnapStore(db)

	approved := createTestTravsnap(t, db, author.ID)
	hidden := createTestTravsnap(t, db, author.ID)
	pending := createTestTravsnap(t, db, author.ID)

	if err := s.UpdateStatus(db, approved.ID, models.ContentStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := s.UpdateStatus(db, hidden.ID, models.ContentStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := s.SetActive(hidden.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	snaps, err := s.ListApproved(100, 0)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	seen := map[int64]bool{}
	for _, ts := range snaps {
		seen[ts.ID] = true
	}
	if !seen[approved.ID] {
		t.Error("approved active travsnap missing from feed")
	}
	if seen[hidden.ID] {
		t.Error("deactivated travsnap leaked into feed")
	}
	if seen[pending.ID] {
		t.Error("pending travsnap leaked into feed")
	}
}

func TestTravsnapStore_SetFeatured(t *testing.T) {
	db := testDB(t)
	author := createTestUser(t, db, models.RoleUser)
	s := NewTravsnapStore(db)
	ts := createTestTravsnap(t, db, author.ID)

	if err := s.SetFeatured(ts.ID, true); err != nil {
		t.Fatalf("set featured: %v", err)
	}
	got, err := s.FindByID(ts.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.IsFeatured {
		t.Error("featured flag not persisted")
	}
}
