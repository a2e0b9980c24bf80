package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

type createTokenRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	ExpiresInDays int    `json:"expires_in_days" validate:"gte=0"`
}

// RegisterTokensEndpoints registers CLI token routes
func RegisterTokensEndpoints(s *server.Server) {
	tokens := s.CLITokensStore
	api := s.API()

	api.HandleFunc("/tokens", handleListTokens(tokens)).Methods("GET")
	api.HandleFunc("/tokens", handleCreateToken(tokens)).Methods("POST")
	api.HandleFunc("/tokens/{id}", handleRevokeToken(tokens)).Methods("DELETE")
}

func handleListTokens(tokens store.CLITokensStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := tokens.ListTokens(currentUser(r).UserID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if list == nil {
			list = []model.CLIToken{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

func handleCreateToken(tokens store.CLITokensStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		var req createTokenRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		generated, err := tokens.GenerateToken(user.UserID, req.Name, req.ExpiresInDays)
		event := audit.TokenEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(r),
			Name:         req.Name,
			Operation:    audit.TokenIssue,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		}
		if generated != nil {
			event.TokenID = generated.ID
		}
		audit.Log(event)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		respondWithJSON(w, http.StatusCreated, generated)
	}
}

func handleRevokeToken(tokens store.CLITokensStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		tokenID := mux.Vars(r)["id"]

		revoked, err := tokens.RevokeToken(user.UserID, tokenID)
		audit.Log(audit.TokenEvent{
			UserID:       user.UserID,
			ClientIP:     clientIP(r),
			TokenID:      tokenID,
			Operation:    audit.TokenRevoke,
			Success:      err == nil && revoked,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if !revoked {
			respondWithError(w, http.StatusNotFound, "token not found or already revoked")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
