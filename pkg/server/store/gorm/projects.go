package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure ProjectsStore implements store.ProjectsStore
var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

// ListProjects returns projects the user owns or is a team member of
func (s *ProjectsStore) ListProjects(userID string) ([]model.Project, error) {
	var projects []model.Project
	err := s.db.
		Where("owner_id = ? OR id IN (SELECT project_id FROM team_members WHERE user_id = ?)", userID, userID).
		Order("created_at").
		Find(&projects).Error
	return projects, err
}

// GetProject retrieves a project by id
func (s *ProjectsStore) GetProject(projectID string) (*model.Project, error) {
	var project model.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project and its default environments in one transaction
func (s *ProjectsStore) CreateProject(ownerID, name, description string) (*model.Project, error) {
	project := model.Project{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		for i, envName := range model.DefaultEnvironments {
			env := model.Environment{ProjectID: project.ID, Name: envName, Position: i}
			if err := tx.Create(&env).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject deletes a project. Environments, secrets and members cascade.
func (s *ProjectsStore) DeleteProject(projectID string) error {
	res := s.db.Where("id = ?", projectID).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrProjectNotFound
	}
	return nil
}

// HasProjectAccess is true for the owner and any team member
func (s *ProjectsStore) HasProjectAccess(projectID, userID string) bool {
	return s.ProjectRole(projectID, userID) != ""
}

// ProjectRole returns the user's role on a project, or "" for no access
func (s *ProjectsStore) ProjectRole(projectID, userID string) string {
	if projectID == "" || userID == "" {
		return ""
	}

	var project model.Project
	if err := s.db.Select("id", "owner_id").Where("id = ?", projectID).First(&project).Error; err != nil {
		return ""
	}
	if project.OwnerID == userID {
		return model.TeamRoleOwner
	}

	var member model.TeamMember
	res := s.db.Select("role").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Limit(1).
		Find(&member)
	if res.Error != nil || res.RowsAffected == 0 {
		return ""
	}
	return member.Role
}

// CanWrite is true for owners, admins and members
func (s *ProjectsStore) CanWrite(projectID, userID string) bool {
	return model.CanWriteRole(s.ProjectRole(projectID, userID))
}
