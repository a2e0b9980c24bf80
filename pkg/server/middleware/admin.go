package middleware

import (
	"net/http"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/identity"
)

// AdminChecker decides whether a user may use the admin area
type AdminChecker interface {
	IsAdmin(userID string) bool
}

// RequireAdmin answers 403 unless the authenticated user is an admin.
// It must run after the Authenticator middleware.
func RequireAdmin(admins AdminChecker, trusted func(ip string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.Get(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrMissingAuthorization.Error())
				return
			}
			if !admins.IsAdmin(id.UserID) {
				audit.Log(audit.AccessDeniedEvent{
					UserID:    id.UserID,
					ClientIP:  ClientIP(r, trusted),
					Resource:  r.URL.Path,
					Privilege: "admin",
				})
				writeError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
