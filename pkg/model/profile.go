package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Profile struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Email     string    `gorm:"column:email" json:"email"`
	FullName  string    `gorm:"column:full_name" json:"full_name"`
	Role      string    `gorm:"column:role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Team roles, ordered from least to most privileged.
const (
	TeamRoleViewer = "viewer"
	TeamRoleMember = "member"
	TeamRoleAdmin  = "admin"
	TeamRoleOwner  = "owner"
)

type TeamMember struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	ProjectID string    `gorm:"column:project_id" json:"project_id"`
	UserID    string    `gorm:"column:user_id" json:"user_id"`
	Role      string    `gorm:"column:role" json:"role"`
	InvitedBy string    `gorm:"column:invited_by" json:"invited_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

// ValidTeamRole reports whether role may be assigned to a team member.
// The owner role belongs to the project owner and is never assigned.
func ValidTeamRole(role string) bool {
	switch role {
	case TeamRoleViewer, TeamRoleMember, TeamRoleAdmin:
		return true
	}
	return false
}

// CanWriteRole reports whether role may modify secrets.
func CanWriteRole(role string) bool {
	switch role {
	case TeamRoleMember, TeamRoleAdmin, TeamRoleOwner:
		return true
	}
	return false
}

const (
	PlanFree = "free"
	PlanPro  = "pro"
	PlanTeam = "team"
)

type Subscription struct {
	ID               string     `gorm:"column:id;primaryKey" json:"id"`
	UserID           string     `gorm:"column:user_id" json:"user_id"`
	Plan             string     `gorm:"column:plan" json:"plan"`
	Status           string     `gorm:"column:status" json:"status"`
	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end" json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
