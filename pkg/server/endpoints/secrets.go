package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
	"github.com/envault/envault/pkg/validate"
)

// MaskedValue replaces secret values in listings unless reveal=true
const MaskedValue = "********"

// SecretResponse is a secret as returned by the API
type SecretResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Masked    bool      `json:"masked"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type upsertSecretRequest struct {
	Value *string `json:"value" validate:"required"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,required"`
}

// BulkDeleteFailure reports one secret that could not be deleted
type BulkDeleteFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkDeleteResponse lists the outcome per id. Deletes are not rolled back
// when a later id fails.
type BulkDeleteResponse struct {
	Deleted []string            `json:"deleted"`
	Failed  []BulkDeleteFailure `json:"failed"`
}

// RegisterSecretsEndpoints registers the secret routes
func RegisterSecretsEndpoints(s *server.Server) {
	projects := s.ProjectsStore
	environments := s.EnvironmentsStore
	secrets := s.SecretsStore
	plans := s.PlanStore
	api := s.API()

	api.HandleFunc("/environments/{id}/secrets", handleListSecrets(projects, environments, secrets)).Methods("GET")
	api.HandleFunc("/environments/{id}/secrets/bulk-delete", handleBulkDeleteSecrets(projects, environments, secrets)).Methods("POST")
	api.HandleFunc("/environments/{id}/secrets/{key}", handleGetSecret(projects, environments, secrets)).Methods("GET")
	api.HandleFunc("/environments/{id}/secrets/{key}", handleUpsertSecret(projects, environments, secrets, plans)).Methods("PUT")
	api.HandleFunc("/secrets/{id}", handleDeleteSecret(projects, environments, secrets)).Methods("DELETE")
}

func toSecretResponse(secret store.Secret, reveal bool) SecretResponse {
	resp := SecretResponse{
		ID:        secret.ID,
		Key:       secret.Key,
		Value:     string(secret.Value),
		Version:   secret.Version,
		UpdatedAt: secret.UpdatedAt,
	}
	if !reveal {
		resp.Value = MaskedValue
		resp.Masked = true
	}
	return resp
}

func handleListSecrets(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environmentID := mux.Vars(r)["id"]
		if _, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privRead); !ok {
			return
		}
		reveal := strings.EqualFold(r.URL.Query().Get("reveal"), "true")

		list, err := secrets.ListSecrets(environmentID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		if reveal {
			audit.Log(audit.SecretReadEvent{
				UserID:        currentUser(r).UserID,
				ClientIP:      clientIP(r),
				EnvironmentID: environmentID,
				Revealed:      true,
				Success:       true,
			})
		}

		response := make([]SecretResponse, 0, len(list))
		for _, secret := range list {
			response = append(response, toSecretResponse(secret, reveal))
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleGetSecret(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		environmentID, key := vars["id"], vars["key"]
		if _, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privRead); !ok {
			return
		}

		secret, err := secrets.GetSecret(environmentID, key)
		audit.Log(audit.SecretReadEvent{
			UserID:        currentUser(r).UserID,
			ClientIP:      clientIP(r),
			EnvironmentID: environmentID,
			Key:           key,
			Revealed:      true,
			Success:       err == nil,
			ErrorMessage:  errorMessage(err),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, toSecretResponse(*secret, true))
	}
}

func handleUpsertSecret(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore, plans store.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		environmentID, key := vars["id"], vars["key"]
		env, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privWrite)
		if !ok {
			return
		}
		user := currentUser(r)

		if err := validate.SecretKey(key); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		var req upsertSecretRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		value := []byte(*req.Value)
		if err := validate.SecretValue(value); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		created := false
		if _, err := secrets.GetSecret(environmentID, key); err != nil {
			if !errors.Is(err, store.ErrSecretNotFound) {
				respondWithStoreError(w, err)
				return
			}
			created = true
			if !checkSecretQuota(w, projects, plans, env.ProjectID, 1) {
				return
			}
		}

		id, err := secrets.UpsertSecret(environmentID, key, value, user.UserID)
		audit.Log(audit.SecretWriteEvent{
			UserID:        user.UserID,
			ClientIP:      clientIP(r),
			EnvironmentID: environmentID,
			Key:           key,
			SecretID:      id,
			Success:       err == nil,
			ErrorMessage:  errorMessage(err),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		code := http.StatusOK
		if created {
			code = http.StatusCreated
		}
		respondWithJSON(w, code, map[string]interface{}{"id": id, "key": key, "created": created})
	}
}

func handleDeleteSecret(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secretID := mux.Vars(r)["id"]

		environmentID, err := secrets.SecretEnvironment(secretID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if _, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privWrite); !ok {
			return
		}

		deleted, err := secrets.DeleteSecret(secretID)
		if err == nil && !deleted {
			err = store.ErrSecretNotFound
		}
		audit.Log(audit.SecretDeleteEvent{
			UserID:       currentUser(r).UserID,
			ClientIP:     clientIP(r),
			SecretID:     secretID,
			Success:      err == nil,
			ErrorMessage: errorMessage(err),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleBulkDeleteSecrets(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environmentID := mux.Vars(r)["id"]
		if _, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privWrite); !ok {
			return
		}

		var req bulkDeleteRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		user := currentUser(r)
		ip := clientIP(r)
		response := BulkDeleteResponse{Deleted: []string{}, Failed: []BulkDeleteFailure{}}

		for _, secretID := range req.IDs {
			err := deleteSecretInEnvironment(secrets, environmentID, secretID)
			audit.Log(audit.SecretDeleteEvent{
				UserID:       user.UserID,
				ClientIP:     ip,
				SecretID:     secretID,
				Success:      err == nil,
				ErrorMessage: errorMessage(err),
			})
			if err != nil {
				response.Failed = append(response.Failed, BulkDeleteFailure{ID: secretID, Error: err.Error()})
				continue
			}
			response.Deleted = append(response.Deleted, secretID)
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}

// deleteSecretInEnvironment refuses ids from other environments so a bulk
// request cannot reach outside the authorized environment
func deleteSecretInEnvironment(secrets store.SecretsStore, environmentID, secretID string) error {
	owner, err := secrets.SecretEnvironment(secretID)
	if err != nil {
		return err
	}
	if owner != environmentID {
		return store.ErrSecretNotFound
	}
	deleted, err := secrets.DeleteSecret(secretID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrSecretNotFound
	}
	return nil
}

// checkSecretQuota answers 402 unless the project owner's plan has room for
// n more secrets
func checkSecretQuota(w http.ResponseWriter, projects store.ProjectsStore, plans store.PlanStore, projectID string, n int) bool {
	project, err := projects.GetProject(projectID)
	if err != nil {
		respondWithStoreError(w, err)
		return false
	}
	limits, err := plans.CheckPlanLimits(project.OwnerID)
	if err != nil {
		respondWithStoreError(w, err)
		return false
	}
	if !store.Within(limits.SecretsUsed+int64(n)-1, limits.SecretsLimit) {
		respondWithJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error": store.ErrPlanLimit.Error(),
			"plan":  limits,
		})
		return false
	}
	return true
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
