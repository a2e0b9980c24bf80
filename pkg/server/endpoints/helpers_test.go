package endpoints

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/identity"
	"github.com/envault/envault/pkg/model"
)

func TestMain(m *testing.M) {
	audit.SetEnabled(false)
	os.Exit(m.Run())
}

// requestWithIdentity creates a request authenticated as userID
func requestWithIdentity(method, path, body, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	id := identity.FromCLIToken(userID)
	return req.WithContext(identity.Set(req.Context(), id))
}

// withMuxVars sets the route variables a registered route would extract
func withMuxVars(req *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(req, vars)
}

// testEnvironment is the environment most handler tests operate on
func testEnvironment() *model.Environment {
	return &model.Environment{ID: "env-1", ProjectID: "proj-1", Name: "development"}
}
