package gorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure ProfilesStore implements store.ProfilesStore
var _ store.ProfilesStore = (*ProfilesStore)(nil)

// ProfilesStore implements store.ProfilesStore using GORM
type ProfilesStore struct {
	db          *gorm.DB
	adminEmails []string
}

// NewProfilesStore creates a new ProfilesStore. Profiles whose email is in
// adminEmails are administrators regardless of their role column.
func NewProfilesStore(db *gorm.DB, adminEmails []string) *ProfilesStore {
	return &ProfilesStore{db: db, adminEmails: adminEmails}
}

// GetProfile retrieves a profile by user id
func (s *ProfilesStore) GetProfile(userID string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.Where("id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindProfileByEmail retrieves a profile by email, ignoring case
func (s *ProfilesStore) FindProfileByEmail(email string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// IsAdmin is true for the admin role or a configured admin email
func (s *ProfilesStore) IsAdmin(userID string) bool {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return false
	}
	if profile.IsAdmin() {
		return true
	}
	for _, email := range s.adminEmails {
		if strings.EqualFold(email, profile.Email) {
			return true
		}
	}
	return false
}

// EnsureProfile returns the user's profile, creating it if needed
func (s *ProfilesStore) EnsureProfile(userID, email string) (*model.Profile, error) {
	profile := model.Profile{}
	err := s.db.
		Where(model.Profile{ID: userID}).
		Attrs(model.Profile{Email: email, Role: model.RoleUser}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
