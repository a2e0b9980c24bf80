package gorm

import (
	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure PlanStore implements store.PlanStore
var _ store.PlanStore = (*PlanStore)(nil)

var activeSubscriptionStatuses = []string{"active", "trialing"}

// PlanStore implements store.PlanStore using GORM
type PlanStore struct {
	db *gorm.DB
}

// NewPlanStore creates a new PlanStore
func NewPlanStore(db *gorm.DB) *PlanStore {
	return &PlanStore{db: db}
}

// CheckPlanLimits reports the plan and usage of a user
func (s *PlanStore) CheckPlanLimits(userID string) (*store.PlanLimits, error) {
	plan, status := model.PlanFree, "active"

	var sub model.Subscription
	res := s.db.Where("user_id = ? AND status IN ?", userID, activeSubscriptionStatuses).Limit(1).Find(&sub)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		plan, status = sub.Plan, sub.Status
	}

	var projectsUsed int64
	if err := s.db.Model(&model.Project{}).Where("owner_id = ?", userID).Count(&projectsUsed).Error; err != nil {
		return nil, err
	}

	var secretsUsed int64
	if err := s.db.Table("secrets").
		Joins("JOIN environments ON environments.id = secrets.environment_id").
		Joins("JOIN projects ON projects.id = environments.project_id").
		Where("projects.owner_id = ?", userID).
		Count(&secretsUsed).Error; err != nil {
		return nil, err
	}

	limits := store.LimitsFor(plan)
	return &store.PlanLimits{
		Plan:             plan,
		Status:           status,
		ProjectsUsed:     projectsUsed,
		ProjectsLimit:    limits.Projects,
		SecretsUsed:      secretsUsed,
		SecretsLimit:     limits.Secrets,
		TeamMembersLimit: limits.TeamMembers,
		CanCreateProject: store.Within(projectsUsed, limits.Projects),
		CanCreateSecret:  store.Within(secretsUsed, limits.Secrets),
	}, nil
}
