package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure EnvironmentsStore implements store.EnvironmentsStore
var _ store.EnvironmentsStore = (*EnvironmentsStore)(nil)

// EnvironmentsStore implements store.EnvironmentsStore using GORM
type EnvironmentsStore struct {
	db *gorm.DB
}

// NewEnvironmentsStore creates a new EnvironmentsStore
func NewEnvironmentsStore(db *gorm.DB) *EnvironmentsStore {
	return &EnvironmentsStore{db: db}
}

// ListEnvironments returns a project's environments ordered by position
func (s *EnvironmentsStore) ListEnvironments(projectID string) ([]model.Environment, error) {
	var envs []model.Environment
	err := s.db.Where("project_id = ?", projectID).Order("position, name").Find(&envs).Error
	return envs, err
}

// GetEnvironment retrieves an environment by id
func (s *EnvironmentsStore) GetEnvironment(environmentID string) (*model.Environment, error) {
	var env model.Environment
	if err := s.db.Where("id = ?", environmentID).First(&env).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrEnvironmentNotFound
		}
		return nil, err
	}
	return &env, nil
}

// CreateEnvironment appends an environment after the existing ones
func (s *EnvironmentsStore) CreateEnvironment(projectID, name string) (*model.Environment, error) {
	env := model.Environment{ProjectID: projectID, Name: name}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&model.Environment{}).
			Where("project_id = ? AND name = ?", projectID, name).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return store.ErrEnvironmentExists
		}

		var maxPosition int
		if err := tx.Model(&model.Environment{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}
		env.Position = maxPosition + 1

		return tx.Create(&env).Error
	})
	if err != nil {
		return nil, err
	}
	return &env, nil
}

// DeleteEnvironment deletes an environment and its secrets
func (s *EnvironmentsStore) DeleteEnvironment(environmentID string) error {
	res := s.db.Where("id = ?", environmentID).Delete(&model.Environment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrEnvironmentNotFound
	}
	return nil
}
