package models

import "testing"

// TestHasModeratorCapability verifies that only admin and superAdmin roles
// count as moderators, and that unknown or missing roles fail closed.
func TestHasModeratorCapability(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "admin", role: RoleAdmin, want: true},
		{name: "superAdmin", role: RoleSuperAdmin, want: true},
		{name: "regular user", role: RoleUser, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "unknown role", role: Role("moderator"), want: false},
		{name: "wrong case", role: Role("Admin"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.HasModeratorCapability(); got != tt.want {
				t.Errorf("User{Role: %q}.HasModeratorCapability() = %v, want %v",
					tt.role, got, tt.want)
			}
		})
	}
}

// TestIsSuperAdmin verifies that only the exact superAdmin role qualifies.
func TestIsSuperAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "superAdmin", role: RoleSuperAdmin, want: true},
		{name: "admin", role: RoleAdmin, want: false},
		{name: "regular user", role: RoleUser, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "lowercase superadmin", role: Role("superadmin"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsSuperAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsSuperAdmin() = %v, want %v",
					tt.role, got, tt.want)
			}
		})
	}
}

// TestNeeds2FASetup verifies enrollment detection.
func TestNeeds2FASetup(t *testing.T) {
	if !(&User{TOTPEnabled: false}).Needs2FASetup() {
		t.Error("expected Needs2FASetup for un-enrolled user")
	}
	if (&User{TOTPEnabled: true}).Needs2FASetup() {
		t.Error("did not expect Needs2FASetup for enrolled user")
	}
}
