// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

// User represents a platform account. Regular users submit content;
// admin and superAdmin accounts moderate it.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasModeratorCapability returns true if the user may act on moderation
// decisions. Both admin and superAdmin count as moderators; anything else,
// including an empty or unknown role, does not.
func (u *User) HasModeratorCapability() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsSuperAdmin returns true if the user holds the superAdmin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// Needs2FASetup returns true if a moderator account has not completed TOTP
// enrollment. Moderator accounts must enroll before acting on content.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}
