package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/identity"
	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

var (
	ErrMissingAuthorization   = errors.New("authorization missing")
	ErrMalformedAuthorization = errors.New("malformed authorization header")
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("token expired")
)

// SessionClaims are the claims of a dashboard session JWT
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator is middleware that accepts CLI tokens and session JWTs
type Authenticator struct {
	Tokens    store.CLITokensStore
	Profiles  store.ProfilesStore
	JWTSecret []byte
	// TrustedProxy reports whether X-Forwarded-For from ip may be honoured
	TrustedProxy func(ip string) bool
	Logger       *slog.Logger

	now func() time.Time
}

// NewAuthenticator creates a new authenticator middleware. Session JWTs are
// rejected when jwtSecret is empty.
func NewAuthenticator(tokens store.CLITokensStore, profiles store.ProfilesStore, jwtSecret []byte) *Authenticator {
	return &Authenticator{
		Tokens:    tokens,
		Profiles:  profiles,
		JWTSecret: jwtSecret,
		Logger:    slog.Default(),
		now:       time.Now,
	}
}

// Authenticate resolves the identity behind an Authorization header value
func (a *Authenticator) Authenticate(header string) (*identity.Identity, error) {
	if strings.TrimSpace(header) == "" {
		return nil, ErrMissingAuthorization
	}

	scheme, credential, ok := strings.Cut(strings.TrimSpace(header), " ")
	credential = strings.TrimSpace(credential)
	if !ok || !strings.EqualFold(scheme, "Bearer") || credential == "" {
		return nil, ErrMalformedAuthorization
	}

	if model.IsCLIToken(credential) {
		return a.authenticateCLIToken(credential)
	}
	return a.authenticateSession(credential)
}

func (a *Authenticator) authenticateCLIToken(token string) (*identity.Identity, error) {
	if a.Tokens == nil {
		return nil, ErrInvalidToken
	}
	userID, err := a.Tokens.AuthenticateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identity.FromCLIToken(userID), nil
}

func (a *Authenticator) authenticateSession(tokenString string) (*identity.Identity, error) {
	if len(a.JWTSecret) == 0 {
		return nil, ErrInvalidToken
	}

	now := a.now
	if now == nil {
		now = time.Now
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.JWTSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrMalformedAuthorization
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return identity.FromSession(claims.Subject, claims.Email, expiresAt), nil
}

// Middleware returns an HTTP middleware that stores the request identity in
// the context or answers 401
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := ClientIP(r, a.TrustedProxy)

		id, err := a.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			audit.Log(audit.AuthEvent{
				ClientIP:     clientIP,
				Method:       authMethod(r.Header.Get("Authorization")),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			writeError(w, http.StatusUnauthorized, publicMessage(err))
			return
		}

		if ip := net.ParseIP(clientIP); ip != nil {
			id.WithRemoteIP(ip)
		}

		if id.Method == identity.MethodSession && id.Email != "" && a.Profiles != nil {
			if _, err := a.Profiles.EnsureProfile(id.UserID, id.Email); err != nil {
				a.Logger.Warn("failed to ensure profile", "user_id", id.UserID, "error", err)
			}
		}

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// publicMessage hides store details from 401 bodies
func publicMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingAuthorization):
		return ErrMissingAuthorization.Error()
	case errors.Is(err, ErrMalformedAuthorization):
		return ErrMalformedAuthorization.Error()
	case errors.Is(err, ErrExpiredToken):
		return ErrExpiredToken.Error()
	}
	return ErrInvalidToken.Error()
}

func authMethod(header string) string {
	_, credential, _ := strings.Cut(strings.TrimSpace(header), " ")
	if model.IsCLIToken(strings.TrimSpace(credential)) {
		return string(identity.MethodCLIToken)
	}
	return string(identity.MethodSession)
}

// ClientIP returns the request's client address. X-Forwarded-For is only
// honoured when the direct peer is a trusted proxy.
func ClientIP(r *http.Request, trusted func(ip string) bool) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if trusted == nil || !trusted(host) {
		return host
	}
	forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwarded == "" {
		return host
	}
	first, _, _ := strings.Cut(forwarded, ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	return host
}
