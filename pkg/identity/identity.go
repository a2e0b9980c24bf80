package identity

import (
	"context"
	"net"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Method records how a request authenticated.
type Method string

const (
	// MethodSession is a dashboard session JWT.
	MethodSession Method = "session"
	// MethodCLIToken is an envault_ prefixed CLI token.
	MethodCLIToken Method = "cli_token"
)

// Identity represents the authenticated identity for a request.
type Identity struct {
	UserID string
	Email  string
	Method Method

	// ExpiresAt is zero for credentials without an expiry claim
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
	TokenID  string
}

// FromSession creates an Identity from the claims of a session JWT.
func FromSession(subject, email string, expiresAt time.Time) *Identity {
	return &Identity{
		UserID:    subject,
		Email:     email,
		Method:    MethodSession,
		ExpiresAt: expiresAt,
	}
}

// FromCLIToken creates an Identity for a user authenticated with a CLI token.
func FromCLIToken(userID string) *Identity {
	return &Identity{
		UserID: userID,
		Method: MethodCLIToken,
	}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// IsCLI returns true if the request was made with a CLI token.
func (i *Identity) IsCLI() bool {
	return i.Method == MethodCLIToken
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
