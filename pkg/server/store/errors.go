package store

import "errors"

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrEnvironmentNotFound = errors.New("environment not found")
	ErrEnvironmentExists   = errors.New("environment already exists")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrMemberNotFound      = errors.New("team member not found")
	ErrMemberExists        = errors.New("user is already a member of this project")
	ErrInvalidRole         = errors.New("invalid team role")
	ErrArticleNotFound     = errors.New("article not found")
	ErrFindingNotFound     = errors.New("finding not found")

	// ErrTokenInvalid is returned for unknown, revoked or expired CLI tokens
	ErrTokenInvalid = errors.New("invalid CLI token")
	// ErrTokenLimit is returned when a user already holds the maximum number of active tokens
	ErrTokenLimit = errors.New("CLI token limit reached")
	// ErrPlanLimit is returned when an operation would exceed the subscription plan
	ErrPlanLimit = errors.New("plan limit reached")
)
