package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogArticle struct {
	ID          string     `gorm:"column:id;primaryKey" json:"id"`
	Slug        string     `gorm:"column:slug" json:"slug"`
	Title       string     `gorm:"column:title" json:"title"`
	Excerpt     string     `gorm:"column:excerpt" json:"excerpt"`
	Content     string     `gorm:"column:content" json:"content"`
	AuthorID    string     `gorm:"column:author_id" json:"author_id,omitempty"`
	Published   bool       `gorm:"column:published" json:"published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (BlogArticle) TableName() string {
	return "blog_articles"
}

func (a *BlogArticle) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

const (
	FindingStatusOpen     = "open"
	FindingStatusResolved = "resolved"
)

// SecurityFinding is a suspected credential leak. Match holds a masked
// excerpt, never the raw value.
type SecurityFinding struct {
	ID         string     `gorm:"column:id;primaryKey" json:"id"`
	Pattern    string     `gorm:"column:pattern" json:"pattern"`
	Severity   string     `gorm:"column:severity" json:"severity"`
	Source     string     `gorm:"column:source" json:"source"`
	Line       int        `gorm:"column:line" json:"line"`
	Column     int        `gorm:"column:column_no" json:"column"`
	Match      string     `gorm:"column:match" json:"match"`
	Status     string     `gorm:"column:status" json:"status"`
	ResolvedBy string     `gorm:"column:resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	DetectedAt time.Time  `gorm:"column:detected_at" json:"detected_at"`
}

func (SecurityFinding) TableName() string {
	return "security_findings"
}

func (f *SecurityFinding) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = FindingStatusOpen
	}
	if f.DetectedAt.IsZero() {
		f.DetectedAt = time.Now().UTC()
	}
	return nil
}

// AuditLog is a persisted audit event
type AuditLog struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id" json:"user_id"`
	Action    string    `gorm:"column:action" json:"action"`
	Resource  string    `gorm:"column:resource" json:"resource"`
	Metadata  string    `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Severity  int       `gorm:"column:severity" json:"severity"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
