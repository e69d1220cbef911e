package moderation

import (
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/models"
	"github.com/ceylonrover/CeylonRover-ServerSide/internal/store"
)

// DefaultModeratorResolver picks the moderator that freshly submitted
// content is routed to. Injected into the workflow so auto-assignment is
// testable without a populated user table.
type DefaultModeratorResolver interface {
	// DefaultModerator returns the moderator to auto-assign, or nil when
	// none is available.
	DefaultModerator() (*models.User, error)
}

// SuperAdminResolver resolves the oldest active superAdmin account.
type SuperAdminResolver struct {
	users *store.UserStore
}

// NewSuperAdminResolver creates a resolver backed by the user store.
func NewSuperAdminResolver(users *store.UserStore) *SuperAdminResolver {
	return &SuperAdminResolver{users: users}
}

// DefaultModerator returns the oldest active superAdmin, or nil when the
// system has none.
func (r *SuperAdminResolver) DefaultModerator() (*models.User, error) {
	return r.users.FindSuperAdmin()
}
