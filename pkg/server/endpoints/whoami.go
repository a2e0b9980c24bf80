package endpoints

import (
	"net/http"
	"time"

	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	Method    string     `json:"method"`
	Admin     bool       `json:"admin"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	s.RequireAuth(whoamiRouter)

	whoamiRouter.HandleFunc("", handleWhoami(s.ProfilesStore)).Methods("GET")
}

func handleWhoami(profiles store.ProfilesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := currentUser(r)
		if id.UserID == "" {
			respondWithError(w, http.StatusUnauthorized, "unable to determine identity")
			return
		}

		response := WhoamiResponse{
			UserID: id.UserID,
			Email:  id.Email,
			Method: string(id.Method),
			Admin:  profiles.IsAdmin(id.UserID),
		}
		if response.Email == "" {
			if profile, err := profiles.GetProfile(id.UserID); err == nil {
				response.Email = profile.Email
			}
		}
		if !id.ExpiresAt.IsZero() {
			exp := id.ExpiresAt
			response.ExpiresAt = &exp
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}
