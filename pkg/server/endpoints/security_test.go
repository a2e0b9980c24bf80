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
	"github.com/envault/envault/pkg/scanner"
	"github.com/envault/envault/pkg/server/store"
)

func TestScan(t *testing.T) {
	sc := scanner.New(scanner.DefaultPatterns()...)

	t.Run("text with a credential", func(t *testing.T) {
		findings := &MockFindingsStore{}
		findings.On("SaveFindings", mock.MatchedBy(func(f []model.SecurityFinding) bool {
			return len(f) == 1 && f[0].Pattern == "aws_access_key_id" && f[0].Source == "deploy.sh"
		})).Return(nil)

		body := `{"text":"aws configure set key AKIA2E0A8F3B244C9986","source":"deploy.sh"}`
		req := requestWithIdentity("POST", "/api/admin/security/scan", body, "admin-1")
		w := httptest.NewRecorder()
		handleScan(sc, findings, &MockAuditLogsStore{}, 1000)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got ScanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.Summary.Total)
		assert.Equal(t, 1, got.Summary.Critical)
		assert.NotContains(t, w.Body.String(), "AKIA2E0A8F3B244C9986")
		findings.AssertExpectations(t)
	})

	t.Run("audit logs are clamped to the list limit", func(t *testing.T) {
		findings := &MockFindingsStore{}
		logs := &MockAuditLogsStore{}
		logs.On("RecentAuditLogs", 50).Return([]model.AuditLog{
			{Action: "secret-write", Resource: "environment:env-1", Metadata: `{"message":"ok"}`},
		}, nil)

		req := requestWithIdentity("POST", "/api/admin/security/scan", `{"audit_logs":true,"limit":500}`, "admin-1")
		w := httptest.NewRecorder()
		handleScan(sc, findings, logs, 50)(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"findings":[],"summary":{"total":0,"critical":0,"high":0,"medium":0,"low":0,"info":0}}`, w.Body.String())
		findings.AssertNotCalled(t, "SaveFindings", mock.Anything)
	})

	t.Run("nothing to scan", func(t *testing.T) {
		req := requestWithIdentity("POST", "/api/admin/security/scan", `{}`, "admin-1")
		w := httptest.NewRecorder()
		handleScan(sc, &MockFindingsStore{}, &MockAuditLogsStore{}, 1000)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListFindings(t *testing.T) {
	findings := &MockFindingsStore{}
	findings.On("ListFindings", "open").Return([]model.SecurityFinding{{ID: "f-1", Status: "open"}}, nil)

	req := requestWithIdentity("GET", "/api/admin/security/findings?status=open", "", "admin-1")
	w := httptest.NewRecorder()
	handleListFindings(findings)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []model.SecurityFinding
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestResolveFinding(t *testing.T) {
	findings := &MockFindingsStore{}
	findings.On("ResolveFinding", "f-1", "admin-1").Return(nil)
	findings.On("ResolveFinding", "f-2", "admin-1").Return(store.ErrFindingNotFound)

	req := withMuxVars(requestWithIdentity("POST", "/api/admin/security/findings/f-1/resolve", "", "admin-1"), map[string]string{"id": "f-1"})
	w := httptest.NewRecorder()
	handleResolveFinding(findings)(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"f-1","status":"resolved"}`, w.Body.String())

	req = withMuxVars(requestWithIdentity("POST", "/api/admin/security/findings/f-2/resolve", "", "admin-1"), map[string]string{"id": "f-2"})
	w = httptest.NewRecorder()
	handleResolveFinding(findings)(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
