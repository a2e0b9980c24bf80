// Package store provides storage abstractions for the envault server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// The gorm subpackage holds the Postgres implementations; endpoint tests use
// testify mocks of the same interfaces.
//
// # Available Stores
//
//   - ProjectsStore: Projects and the project access rules
//   - EnvironmentsStore: Environments within a project
//   - SecretsStore: Encrypted secret values (list, upsert, delete)
//   - CLITokensStore: CLI token issue, revoke and authentication
//   - PlanStore: Subscription plan limits
//   - ProfilesStore: User profiles and the admin role
//   - TeamStore: Project team membership
//   - FindingsStore: Security scanner findings
//   - BlogStore: Blog articles
//   - AuditLogsStore: Read access to persisted audit events
//   - HealthStore: Database connectivity
//
// # Usage
//
//	secrets := gorm.NewSecretsStore(db)
//	secret, err := secrets.GetSecret(environmentID, "DATABASE_URL")
//	if err != nil {
//	    if errors.Is(err, store.ErrSecretNotFound) {
//	        // Handle not found
//	    }
//	}
package store
