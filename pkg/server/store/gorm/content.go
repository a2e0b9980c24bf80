package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

var (
	_ store.FindingsStore  = (*FindingsStore)(nil)
	_ store.BlogStore      = (*BlogStore)(nil)
	_ store.AuditLogsStore = (*AuditLogsStore)(nil)
)

// FindingsStore implements store.FindingsStore using GORM
type FindingsStore struct {
	db *gorm.DB
}

// NewFindingsStore creates a new FindingsStore
func NewFindingsStore(db *gorm.DB) *FindingsStore {
	return &FindingsStore{db: db}
}

// SaveFindings inserts findings in one batch
func (s *FindingsStore) SaveFindings(findings []model.SecurityFinding) error {
	if len(findings) == 0 {
		return nil
	}
	return s.db.Create(&findings).Error
}

// ListFindings returns findings newest first, optionally filtered by status
func (s *FindingsStore) ListFindings(status string) ([]model.SecurityFinding, error) {
	var findings []model.SecurityFinding
	query := s.db.Order("detected_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&findings).Error
	return findings, err
}

// ResolveFinding marks an open finding resolved
func (s *FindingsStore) ResolveFinding(findingID, resolverID string) error {
	res := s.db.Model(&model.SecurityFinding{}).
		Where("id = ? AND status = ?", findingID, model.FindingStatusOpen).
		Updates(map[string]interface{}{
			"status":      model.FindingStatusResolved,
			"resolved_by": resolverID,
			"resolved_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrFindingNotFound
	}
	return nil
}

// BlogStore implements store.BlogStore using GORM
type BlogStore struct {
	db *gorm.DB
}

// NewBlogStore creates a new BlogStore
func NewBlogStore(db *gorm.DB) *BlogStore {
	return &BlogStore{db: db}
}

// ListArticles returns articles newest first
func (s *BlogStore) ListArticles(publishedOnly bool) ([]model.BlogArticle, error) {
	var articles []model.BlogArticle
	query := s.db.Order("COALESCE(published_at, created_at) DESC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Find(&articles).Error
	return articles, err
}

// GetArticleBySlug retrieves an article by slug
func (s *BlogStore) GetArticleBySlug(slug string) (*model.BlogArticle, error) {
	var article model.BlogArticle
	if err := s.db.Where("slug = ?", slug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// SaveArticle creates or updates an article. Publishing stamps published_at once.
func (s *BlogStore) SaveArticle(article *model.BlogArticle) error {
	if article.Published && article.PublishedAt == nil {
		now := time.Now().UTC()
		article.PublishedAt = &now
	}
	if article.ID == "" {
		return s.db.Create(article).Error
	}
	return s.db.Save(article).Error
}

// DeleteArticle deletes an article by id
func (s *BlogStore) DeleteArticle(articleID string) error {
	res := s.db.Where("id = ?", articleID).Delete(&model.BlogArticle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrArticleNotFound
	}
	return nil
}

// AuditLogsStore implements store.AuditLogsStore using GORM
type AuditLogsStore struct {
	db *gorm.DB
}

// NewAuditLogsStore creates a new AuditLogsStore
func NewAuditLogsStore(db *gorm.DB) *AuditLogsStore {
	return &AuditLogsStore{db: db}
}

// RecentAuditLogs returns up to limit events, newest first
func (s *AuditLogsStore) RecentAuditLogs(limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
