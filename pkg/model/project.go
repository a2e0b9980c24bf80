package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultEnvironments are created alongside every new project
var DefaultEnvironments = []string{"development", "staging", "production"}

type Project struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     string    `gorm:"column:owner_id" json:"owner_id"`
	Name        string    `gorm:"column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Environment struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	ProjectID string    `gorm:"column:project_id" json:"project_id"`
	Name      string    `gorm:"column:name" json:"name"`
	Position  int       `gorm:"column:position" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (Environment) TableName() string {
	return "environments"
}

func (e *Environment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
