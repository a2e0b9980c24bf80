package store

import (
	"time"

	"github.com/envault/envault/pkg/model"
)

// ProfilesStore abstracts user profile operations
type ProfilesStore interface {
	GetProfile(userID string) (*model.Profile, error)

	// FindProfileByEmail matches email case-insensitively
	FindProfileByEmail(email string) (*model.Profile, error)

	// IsAdmin is true for the admin role or a configured admin email
	IsAdmin(userID string) bool

	// EnsureProfile creates the profile on first sight of a user
	EnsureProfile(userID, email string) (*model.Profile, error)
}

// Member is a team member joined with their profile
type Member struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamStore abstracts project team membership
type TeamStore interface {
	ListMembers(projectID string) ([]Member, error)

	// AddMember adds the profile with the given email. It returns
	// ErrProfileNotFound, ErrInvalidRole or ErrMemberExists.
	AddMember(projectID, email, role, invitedBy string) (*Member, error)

	UpdateMemberRole(projectID, userID, role string) error

	RemoveMember(projectID, userID string) error
}
