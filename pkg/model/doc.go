// Package model defines the database models for envault.
//
// # Core Models
//
//   - Profile: A dashboard user, keyed by the identity provider's user id
//   - Project: A named set of environments owned by one profile
//   - Environment: A grouping of secrets (development, staging, production)
//   - Secret: An encrypted, versioned key/value pair in an environment
//   - TeamMember: A profile granted a role on someone else's project
//   - Subscription: The billing plan of a profile
//   - CLIToken: A hashed credential used by the envault CLI
//   - BlogArticle: Markdown content managed from the admin area
//   - SecurityFinding: A suspected leaked credential found by the scanner
//
// # Encryption
//
// Secret values are encrypted in gorm hooks using the cipher attached to
// the session context with WithCipher. A session without a cipher refuses
// to read or write secret values.
package model
