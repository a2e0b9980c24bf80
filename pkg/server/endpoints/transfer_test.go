package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

func transferStores(userID string) (*MockProjectsStore, *MockEnvironmentsStore, *MockSecretsStore) {
	projects := &MockProjectsStore{}
	environments := &MockEnvironmentsStore{}
	environments.On("GetEnvironment", "env-1").Return(testEnvironment(), nil)
	projects.On("HasProjectAccess", "proj-1", userID).Return(true)
	projects.On("CanWrite", "proj-1", userID).Return(true)
	projects.On("GetProject", "proj-1").Return(&model.Project{ID: "proj-1", OwnerID: "owner-1", Name: "Web App"}, nil)
	return projects, environments, &MockSecretsStore{}
}

func TestExport(t *testing.T) {
	projects, environments, secrets := transferStores("user-1")
	secrets.On("ListSecrets", "env-1").Return([]store.Secret{
		{Key: "B_KEY", Value: []byte("two words")},
		{Key: "A_KEY", Value: []byte("plain")},
	}, nil)

	t.Run("dotenv by default", func(t *testing.T) {
		req := requestWithIdentity("GET", "/api/environments/env-1/export", "", "user-1")
		req = withMuxVars(req, map[string]string{"id": "env-1"})
		w := httptest.NewRecorder()
		handleExport(projects, environments, secrets)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "A_KEY=plain\nB_KEY=\"two words\"\n", w.Body.String())
		assert.Equal(t, `attachment; filename="web-app-development.env"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("json", func(t *testing.T) {
		req := requestWithIdentity("GET", "/api/environments/env-1/export?format=json", "", "user-1")
		req = withMuxVars(req, map[string]string{"id": "env-1"})
		w := httptest.NewRecorder()
		handleExport(projects, environments, secrets)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, map[string]string{"A_KEY": "plain", "B_KEY": "two words"}, got)
	})

	t.Run("unknown format", func(t *testing.T) {
		req := requestWithIdentity("GET", "/api/environments/env-1/export?format=xml", "", "user-1")
		req = withMuxVars(req, map[string]string{"id": "env-1"})
		w := httptest.NewRecorder()
		handleExport(projects, environments, secrets)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestImport(t *testing.T) {
	t.Run("imports valid lines and counts skipped", func(t *testing.T) {
		projects, environments, secrets := transferStores("user-1")
		plans := &MockPlanStore{}
		secrets.On("ListSecrets", "env-1").Return([]store.Secret{{Key: "EXISTING"}}, nil)
		plans.On("CheckPlanLimits", "owner-1").Return(&store.PlanLimits{SecretsUsed: 1, SecretsLimit: 100}, nil)
		secrets.On("UpsertSecret", "env-1", "EXISTING", []byte("new"), "user-1").Return("s-1", nil)
		secrets.On("UpsertSecret", "env-1", "NEW_KEY", []byte("value"), "user-1").Return("s-2", nil)

		body := "EXISTING=new\nNEW_KEY=value\nnot a pair\nlower=bad\n"
		req := requestWithIdentity("POST", "/api/environments/env-1/import", body, "user-1")
		req = withMuxVars(req, map[string]string{"id": "env-1"})
		w := httptest.NewRecorder()
		handleImport(projects, environments, secrets, plans)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got ImportResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Imported)
		assert.Equal(t, 2, got.Skipped)
		assert.Empty(t, got.Errors)
	})

	t.Run("new keys over quota", func(t *testing.T) {
		projects, environments, secrets := transferStores("user-1")
		plans := &MockPlanStore{}
		secrets.On("ListSecrets", "env-1").Return([]store.Secret{}, nil)
		plans.On("CheckPlanLimits", "owner-1").Return(&store.PlanLimits{SecretsUsed: 99, SecretsLimit: 100}, nil)

		req := requestWithIdentity("POST", "/api/environments/env-1/import", "A=1\nB=2\n", "user-1")
		req = withMuxVars(req, map[string]string{"id": "env-1"})
		w := httptest.NewRecorder()
		handleImport(projects, environments, secrets, plans)(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		secrets.AssertNotCalled(t, "UpsertSecret", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		projects, environments, secrets := transferStores("user-1")

		req := requestWithIdentity("POST", "/api/environments/env-1/import?format=json", "{nope", "user-1")
		req = withMuxVars(req, map[string]string{"id": "env-1"})
		w := httptest.NewRecorder()
		handleImport(projects, environments, secrets, &MockPlanStore{})(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
