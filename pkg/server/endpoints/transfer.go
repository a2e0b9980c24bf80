package endpoints

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/export"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
	"github.com/envault/envault/pkg/validate"
)

// maxImportBytes bounds an uploaded secrets file
const maxImportBytes = 5 << 20

// ImportResponse reports the outcome of an import
type ImportResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// RegisterTransferEndpoints registers export and import routes
func RegisterTransferEndpoints(s *server.Server) {
	projects := s.ProjectsStore
	environments := s.EnvironmentsStore
	secrets := s.SecretsStore
	plans := s.PlanStore
	api := s.API()

	api.HandleFunc("/environments/{id}/export", handleExport(projects, environments, secrets)).Methods("GET")
	api.HandleFunc("/environments/{id}/import", handleImport(projects, environments, secrets, plans)).Methods("POST")
}

func formatParam(r *http.Request) (export.Format, error) {
	name := r.URL.Query().Get("format")
	if name == "" {
		return export.FormatEnv, nil
	}
	return export.ParseFormat(name)
}

func handleExport(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environmentID := mux.Vars(r)["id"]
		env, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privRead)
		if !ok {
			return
		}
		format, err := formatParam(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		event := audit.ExportEvent{
			UserID:        currentUser(r).UserID,
			ClientIP:      clientIP(r),
			EnvironmentID: environmentID,
			Format:        string(format),
		}

		list, err := secrets.ListSecrets(environmentID)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithStoreError(w, err)
			return
		}
		entries := make([]export.Entry, 0, len(list))
		for _, secret := range list {
			entries = append(entries, export.Entry{Key: secret.Key, Value: string(secret.Value)})
		}

		body, err := export.Export(format, entries)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		event.Count = len(entries)
		event.Success = true
		audit.Log(event)

		base := env.Name
		if project, err := projects.GetProject(env.ProjectID); err == nil {
			base = project.Name + "-" + env.Name
		}

		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(base, format)))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func handleImport(projects store.ProjectsStore, environments store.EnvironmentsStore, secrets store.SecretsStore, plans store.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environmentID := mux.Vars(r)["id"]
		env, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privWrite)
		if !ok {
			return
		}
		format, err := formatParam(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(data) > maxImportBytes {
			respondWithError(w, http.StatusRequestEntityTooLarge, "import file too large")
			return
		}

		entries, skipped, err := export.Parse(format, data)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		valid := entries[:0]
		for _, e := range entries {
			if validate.SecretKey(e.Key) != nil || validate.SecretValue([]byte(e.Value)) != nil {
				skipped++
				continue
			}
			valid = append(valid, e)
		}

		existing, err := secrets.ListSecrets(environmentID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		known := make(map[string]bool, len(existing))
		for _, s := range existing {
			known[s.Key] = true
		}
		added := 0
		for _, e := range valid {
			if !known[e.Key] {
				known[e.Key] = true
				added++
			}
		}
		if added > 0 && !checkSecretQuota(w, projects, plans, env.ProjectID, added) {
			return
		}

		user := currentUser(r)
		response := ImportResponse{Skipped: skipped}
		for _, e := range valid {
			if _, err := secrets.UpsertSecret(environmentID, e.Key, []byte(e.Value), user.UserID); err != nil {
				response.Errors = append(response.Errors, fmt.Sprintf("%s: %v", e.Key, err))
				continue
			}
			response.Imported++
		}

		event := audit.ImportEvent{
			UserID:        user.UserID,
			ClientIP:      clientIP(r),
			EnvironmentID: environmentID,
			Format:        string(format),
			Imported:      response.Imported,
			Skipped:       response.Skipped,
			Success:       len(response.Errors) == 0,
		}
		if len(response.Errors) > 0 {
			event.ErrorMessage = response.Errors[0]
		}
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, response)
	}
}
