package store

import "github.com/envault/envault/pkg/model"

// FindingsStore abstracts security finding storage
type FindingsStore interface {
	SaveFindings(findings []model.SecurityFinding) error

	// ListFindings returns findings newest first. An empty status lists all.
	ListFindings(status string) ([]model.SecurityFinding, error)

	// ResolveFinding returns ErrFindingNotFound unless an open finding exists
	ResolveFinding(findingID, resolverID string) error
}

// BlogStore abstracts blog article storage
type BlogStore interface {
	ListArticles(publishedOnly bool) ([]model.BlogArticle, error)

	GetArticleBySlug(slug string) (*model.BlogArticle, error)

	// SaveArticle creates the article when it has no id, otherwise updates it
	SaveArticle(article *model.BlogArticle) error

	DeleteArticle(articleID string) error
}

// AuditLogsStore reads persisted audit events
type AuditLogsStore interface {
	RecentAuditLogs(limit int) ([]model.AuditLog, error)
}
