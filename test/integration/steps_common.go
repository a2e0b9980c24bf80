package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/envault/envault/pkg/config"
	gormstore "github.com/envault/envault/pkg/server/store/gorm"
)

// testUser is a seeded profile with a CLI token
type testUser struct {
	id    string
	email string
	token string
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	users        map[string]*testUser
	projects     map[string]string
	environments map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:           tc,
		users:        make(map[string]*testUser),
		projects:     make(map[string]string),
		environments: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^an envault server is running$`, s.anEnvaultServerIsRunning)
	sc.Step(`^a user "([^"]*)" with a CLI token$`, s.aUserWithACLIToken)
	sc.Step(`^"([^"]*)" is on the "([^"]*)" plan$`, s.userIsOnPlan)
	sc.Step(`^I am "([^"]*)"$`, s.iAm)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)

	// Session steps
	sc.Step(`^I use a session token for "([^"]*)"$`, s.iUseASessionTokenFor)
	sc.Step(`^I use an expired session token for "([^"]*)"$`, s.iUseAnExpiredSessionTokenFor)
	sc.Step(`^I use a session token for "([^"]*)" signed with "([^"]*)"$`, s.iUseASessionTokenSignedWith)

	// Project steps
	sc.Step(`^I create a project "([^"]*)"$`, s.iCreateAProject)
	sc.Step(`^I add "([^"]*)" to project "([^"]*)" as "([^"]*)"$`, s.iAddMemberToProject)

	// Secret steps
	sc.Step(`^I set secret "([^"]*)" to "([^"]*)" in "([^"]*)" of "([^"]*)"$`, s.iSetSecret)
	sc.Step(`^I list the secrets in "([^"]*)" of "([^"]*)"$`, s.iListSecrets)
	sc.Step(`^I reveal the secrets in "([^"]*)" of "([^"]*)"$`, s.iRevealSecrets)
	sc.Step(`^I export "([^"]*)" of "([^"]*)" as "([^"]*)"$`, s.iExport)
	sc.Step(`^I import into "([^"]*)" of "([^"]*)" as "([^"]*)":$`, s.iImport)
	sc.Step(`^the secret "([^"]*)" in "([^"]*)" of "([^"]*)" has value "([^"]*)"$`, s.theSecretHasValue)
	sc.Step(`^the secret "([^"]*)" is stored encrypted$`, s.theSecretIsStoredEncrypted)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the response body should not contain "([^"]*)"$`, s.theResponseBodyShouldNotContain)
	sc.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, s.theResponseHeaderShouldContain)
	sc.Step(`^the response JSON "([^"]*)" should be (\d+)$`, s.theResponseJSONNumberShouldBe)

	// Audit steps
	sc.Step(`^an audit event "([^"]*)" should be recorded$`, s.anAuditEventShouldBeRecorded)
}

// Background steps

func (s *StepsContext) anEnvaultServerIsRunning() error {
	// Started once by TestContext
	return nil
}

func (s *StepsContext) aUserWithACLIToken(email string) error {
	user := &testUser{id: uuid.NewString(), email: email}
	if err := s.tc.DB.Exec(`INSERT INTO profiles (id, email) VALUES (?, ?)`, user.id, email).Error; err != nil {
		return err
	}

	cfg := config.NewDefault()
	tokens := gormstore.NewCLITokensStore(s.tc.DB, gormstore.TokenPolicy{
		DefaultExpiryDays: cfg.CLITokenDefaultExpiryDays,
		MaxExpiryDays:     cfg.CLITokenMaxExpiryDays,
		MaxTokens:         cfg.MaxCLITokens,
	})
	generated, err := tokens.GenerateToken(user.id, "integration", 0)
	if err != nil {
		return err
	}
	user.token = generated.Token
	s.users[email] = user
	return nil
}

func (s *StepsContext) userIsOnPlan(email, plan string) error {
	user, err := s.user(email)
	if err != nil {
		return err
	}
	return s.tc.DB.Exec(`
		INSERT INTO subscriptions (user_id, plan, status) VALUES (?, ?, 'active')
		ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, status = 'active'
	`, user.id, plan).Error
}

func (s *StepsContext) iAm(email string) error {
	user, err := s.user(email)
	if err != nil {
		return err
	}
	s.authToken = user.token
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) user(email string) (*testUser, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("unknown user %q", email)
	}
	return user, nil
}

// HTTP helpers

func (s *StepsContext) do(method, path, contentType string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) doJSON(method, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.do(method, path, "application/json", body)
}

// Project steps

func (s *StepsContext) iCreateAProject(name string) error {
	if err := s.doJSON("POST", "/api/projects", map[string]string{"name": name}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}

	var project struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(s.responseBody, &project); err != nil {
		return err
	}
	s.projects[name] = project.ID

	body := s.responseBody
	defer func() { s.responseBody = body }()
	if err := s.do("GET", "/api/projects/"+project.ID+"/environments", "", nil); err != nil {
		return err
	}
	var envs []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(s.responseBody, &envs); err != nil {
		return fmt.Errorf("failed to list environments: %w: %s", err, s.responseBody)
	}
	for _, env := range envs {
		s.environments[name+"/"+env.Name] = env.ID
	}
	return nil
}

func (s *StepsContext) iAddMemberToProject(email, project, role string) error {
	projectID, ok := s.projects[project]
	if !ok {
		return fmt.Errorf("unknown project %q", project)
	}
	return s.doJSON("POST", "/api/projects/"+projectID+"/members", map[string]string{"email": email, "role": role})
}

// Secret steps

func (s *StepsContext) environmentID(env, project string) (string, error) {
	id, ok := s.environments[project+"/"+env]
	if !ok {
		return "", fmt.Errorf("unknown environment %q of project %q", env, project)
	}
	return id, nil
}

func (s *StepsContext) iSetSecret(key, value, env, project string) error {
	envID, err := s.environmentID(env, project)
	if err != nil {
		return err
	}
	return s.doJSON("PUT", "/api/environments/"+envID+"/secrets/"+url.PathEscape(key), map[string]string{"value": value})
}

func (s *StepsContext) iListSecrets(env, project string) error {
	envID, err := s.environmentID(env, project)
	if err != nil {
		return err
	}
	return s.do("GET", "/api/environments/"+envID+"/secrets", "", nil)
}

func (s *StepsContext) iRevealSecrets(env, project string) error {
	envID, err := s.environmentID(env, project)
	if err != nil {
		return err
	}
	return s.do("GET", "/api/environments/"+envID+"/secrets?reveal=true", "", nil)
}

func (s *StepsContext) iExport(env, project, format string) error {
	envID, err := s.environmentID(env, project)
	if err != nil {
		return err
	}
	return s.do("GET", "/api/environments/"+envID+"/export?format="+url.QueryEscape(format), "", nil)
}

func (s *StepsContext) iImport(env, project, format string, doc *godog.DocString) error {
	envID, err := s.environmentID(env, project)
	if err != nil {
		return err
	}
	return s.do("POST", "/api/environments/"+envID+"/import?format="+url.QueryEscape(format), "text/plain", []byte(doc.Content))
}

func (s *StepsContext) theSecretHasValue(key, env, project, expected string) error {
	envID, err := s.environmentID(env, project)
	if err != nil {
		return err
	}
	if err := s.do("GET", "/api/environments/"+envID+"/secrets/"+url.PathEscape(key), "", nil); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200 reading %s, got %d: %s", key, s.response.StatusCode, s.responseBody)
	}
	var secret struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(s.responseBody, &secret); err != nil {
		return err
	}
	if secret.Value != expected {
		return fmt.Errorf("expected %s to be %q, got %q", key, expected, secret.Value)
	}
	return nil
}

func (s *StepsContext) theSecretIsStoredEncrypted(key string) error {
	var stored []byte
	if err := s.tc.RawDB.QueryRow(`SELECT value FROM secrets WHERE key = $1`, key).Scan(&stored); err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(stored) == 0 || stored[0] != 'G' {
		return fmt.Errorf("secret %s is not sealed with the data key", key)
	}
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected body to contain %q, got %s", text, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldNotContain(text string) error {
	if strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected body not to contain %q, got %s", text, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseHeaderShouldContain(name, text string) error {
	if value := s.response.Header.Get(name); !strings.Contains(value, text) {
		return fmt.Errorf("expected header %s to contain %q, got %q", name, text, value)
	}
	return nil
}

func (s *StepsContext) theResponseJSONNumberShouldBe(field string, expected int) error {
	var result map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	value, ok := result[field].(float64)
	if !ok {
		return fmt.Errorf("%s not found in response", field)
	}
	if int(value) != expected {
		return fmt.Errorf("expected %s to be %d, got %d", field, expected, int(value))
	}
	return nil
}

// Audit steps

func (s *StepsContext) anAuditEventShouldBeRecorded(action string) error {
	var count int64
	if err := s.tc.RawDB.QueryRow(`SELECT COUNT(*) FROM audit_logs WHERE action = $1`, action).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no audit event %q recorded", action)
	}
	return nil
}
