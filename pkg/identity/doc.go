// Package identity provides authenticated identity management for envault requests.
//
// An Identity is built by the auth middleware from either a dashboard session
// JWT or a CLI token, and is carried on the request context.
//
// # Basic Usage
//
//	id := identity.FromCLIToken(userID).WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
package identity
