package gorm

import (
	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure TeamStore implements store.TeamStore
var _ store.TeamStore = (*TeamStore)(nil)

// TeamStore implements store.TeamStore using GORM
type TeamStore struct {
	db       *gorm.DB
	profiles *ProfilesStore
}

// NewTeamStore creates a new TeamStore
func NewTeamStore(db *gorm.DB) *TeamStore {
	return &TeamStore{db: db, profiles: NewProfilesStore(db, nil)}
}

func (s *TeamStore) membersQuery() *gorm.DB {
	return s.db.Table("team_members").
		Select("team_members.user_id, profiles.email, profiles.full_name, team_members.role, team_members.created_at").
		Joins("JOIN profiles ON profiles.id = team_members.user_id")
}

// ListMembers returns a project's members in the order they joined
func (s *TeamStore) ListMembers(projectID string) ([]store.Member, error) {
	var members []store.Member
	err := s.membersQuery().
		Where("team_members.project_id = ?", projectID).
		Order("team_members.created_at").
		Scan(&members).Error
	return members, err
}

// AddMember adds the profile with the given email to a project
func (s *TeamStore) AddMember(projectID, email, role, invitedBy string) (*store.Member, error) {
	if !model.ValidTeamRole(role) {
		return nil, store.ErrInvalidRole
	}

	profile, err := s.profiles.FindProfileByEmail(email)
	if err != nil {
		return nil, err
	}

	var member model.TeamMember
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var owner int64
		if err := tx.Model(&model.Project{}).
			Where("id = ? AND owner_id = ?", projectID, profile.ID).
			Count(&owner).Error; err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&model.TeamMember{}).
			Where("project_id = ? AND user_id = ?", projectID, profile.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if owner > 0 || existing > 0 {
			return store.ErrMemberExists
		}

		member = model.TeamMember{
			ProjectID: projectID,
			UserID:    profile.ID,
			Role:      role,
			InvitedBy: invitedBy,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return &store.Member{
		UserID:    profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	}, nil
}

// UpdateMemberRole changes the role of an existing member
func (s *TeamStore) UpdateMemberRole(projectID, userID, role string) error {
	if !model.ValidTeamRole(role) {
		return store.ErrInvalidRole
	}

	res := s.db.Model(&model.TeamMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrMemberNotFound
	}
	return nil
}

// RemoveMember removes a user from a project team
func (s *TeamStore) RemoveMember(projectID, userID string) error {
	res := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&model.TeamMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrMemberNotFound
	}
	return nil
}
