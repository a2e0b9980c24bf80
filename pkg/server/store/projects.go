package store

import "github.com/envault/envault/pkg/model"

// ProjectsStore abstracts project storage and the project access rules
type ProjectsStore interface {
	// ListProjects returns projects the user owns or is a team member of
	ListProjects(userID string) ([]model.Project, error)

	// GetProject returns ErrProjectNotFound if the project doesn't exist
	GetProject(projectID string) (*model.Project, error)

	// CreateProject creates a project with the default environments
	CreateProject(ownerID, name, description string) (*model.Project, error)

	// DeleteProject deletes a project and everything in it
	DeleteProject(projectID string) error

	// HasProjectAccess is true for the owner and any team member
	HasProjectAccess(projectID, userID string) bool

	// ProjectRole returns owner, admin, member, viewer or "" for no access
	ProjectRole(projectID, userID string) string

	// CanWrite is true for owners, admins and members
	CanWrite(projectID, userID string) bool
}

// EnvironmentsStore abstracts environment storage operations
type EnvironmentsStore interface {
	// ListEnvironments returns a project's environments ordered by position
	ListEnvironments(projectID string) ([]model.Environment, error)

	GetEnvironment(environmentID string) (*model.Environment, error)

	// CreateEnvironment returns ErrEnvironmentExists for a duplicate name
	CreateEnvironment(projectID, name string) (*model.Environment, error)

	DeleteEnvironment(environmentID string) error
}
