package store

import (
	"testing"

	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
)

func TestUserStore_CreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u := createTestUser(t, db, models.RoleUser)
	if u.ID == 0 {
		t.Fatal("created user has no id")
	}
	if u.Role != models.RoleUser {
		t.Errorf("role = %q, want user", u.Role)
	}
	if !u.IsActive {
		t.Error("new user should be active")
	}
	if u.PasswordHash == "test-password-123" {
		t.Error("password stored in plain text")
	}

	byEmail, err := s.FindByEmail(u.Email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Fatalf("FindByEmail returned %+v, want id %d", byEmail, u.ID)
	}

	byID, err := s.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != u.Email {
		t.Fatalf("FindByID returned %+v", byID)
	}

	missing, err := s.FindByEmail("nobody@test.ceylonrover.local")
	if err != nil {
		t.Fatalf("FindByEmail missing: %v", err)
	}
	if missing != nil {
		t.Error("FindByEmail should return nil for unknown email")
	}
}

func TestUserStore_CheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u := createTestUser(t, db, models.RoleUser)
	if !s.CheckPassword(u, "test-password-123") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(u, "wrong-password") {
		t.Error("wrong password accepted")
	}
}

func TestUserStore_FindSuperAdmin(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	createTestUser(t, db, models.RoleSuperAdmin)

	sa, err := s.FindSuperAdmin()
	if err != nil {
		t.Fatalf("FindSuperAdmin: %v", err)
	}
	if sa == nil {
		t.Fatal("FindSuperAdmin returned nil with a superAdmin present")
	}
	if sa.Role != models.RoleSuperAdmin {
		t.Errorf("role = %q, want superAdmin", sa.Role)
	}
}

func TestUserStore_ListModerators(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	admin := createTestUser(t, db, models.RoleAdmin)
	regular := createTestUser(t, db, models.RoleUser)

	mods, err := s.ListModerators()
	if err != nil {
		t.Fatalf("ListModerators: %v", err)
	}

	foundAdmin, foundRegular := false, false
	for _, m := range mods {
		if m.ID == admin.ID {
			foundAdmin = true
		}
		if m.ID == regular.ID {
			foundRegular = true
		}
	}
	if !foundAdmin {
		t.Error("admin missing from moderator list")
	}
	if foundRegular {
		t.Error("regular user included in moderator list")
	}

	// Deactivated moderators drop out of the list.
	if err := s.SetActive(admin.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	mods, err = s.ListModerators()
	if err != nil {
		t.Fatalf("ListModerators: %v", err)
	}
	for _, m := range mods {
		if m.ID == admin.ID {
			t.Error("inactive admin still listed as moderator")
		}
	}
}

func TestUserStore_TOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u := createTestUser(t, db, models.RoleAdmin)
	if u.TOTPEnabled {
		t.Fatal("new user should not have TOTP enabled")
	}

	if err := s.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	got, err := s.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.TOTPEnabled {
		t.Error("TOTP not enabled after EnableTOTP")
	}
	if got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("TOTP secret not persisted")
	}
}
