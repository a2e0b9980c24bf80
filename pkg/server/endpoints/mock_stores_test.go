package endpoints

import (
	"github.com/stretchr/testify/mock"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// MockProjectsStore implements store.ProjectsStore for testing using testify/mock
type MockProjectsStore struct {
	mock.Mock
}

func (m *MockProjectsStore) ListProjects(userID string) ([]model.Project, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectsStore) GetProject(projectID string) (*model.Project, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectsStore) CreateProject(ownerID, name, description string) (*model.Project, error) {
	args := m.Called(ownerID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectsStore) DeleteProject(projectID string) error {
	return m.Called(projectID).Error(0)
}

func (m *MockProjectsStore) HasProjectAccess(projectID, userID string) bool {
	return m.Called(projectID, userID).Bool(0)
}

func (m *MockProjectsStore) ProjectRole(projectID, userID string) string {
	return m.Called(projectID, userID).String(0)
}

func (m *MockProjectsStore) CanWrite(projectID, userID string) bool {
	return m.Called(projectID, userID).Bool(0)
}

// MockEnvironmentsStore implements store.EnvironmentsStore for testing using testify/mock
type MockEnvironmentsStore struct {
	mock.Mock
}

func (m *MockEnvironmentsStore) ListEnvironments(projectID string) ([]model.Environment, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Environment), args.Error(1)
}

func (m *MockEnvironmentsStore) GetEnvironment(environmentID string) (*model.Environment, error) {
	args := m.Called(environmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Environment), args.Error(1)
}

func (m *MockEnvironmentsStore) CreateEnvironment(projectID, name string) (*model.Environment, error) {
	args := m.Called(projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Environment), args.Error(1)
}

func (m *MockEnvironmentsStore) DeleteEnvironment(environmentID string) error {
	return m.Called(environmentID).Error(0)
}

// MockSecretsStore implements store.SecretsStore for testing using testify/mock
type MockSecretsStore struct {
	mock.Mock
}

func (m *MockSecretsStore) ListSecrets(environmentID string) ([]store.Secret, error) {
	args := m.Called(environmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Secret), args.Error(1)
}

func (m *MockSecretsStore) GetSecret(environmentID, key string) (*store.Secret, error) {
	args := m.Called(environmentID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Secret), args.Error(1)
}

func (m *MockSecretsStore) UpsertSecret(environmentID, key string, value []byte, userID string) (string, error) {
	args := m.Called(environmentID, key, value, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSecretsStore) DeleteSecret(secretID string) (bool, error) {
	args := m.Called(secretID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSecretsStore) SecretEnvironment(secretID string) (string, error) {
	args := m.Called(secretID)
	return args.String(0), args.Error(1)
}

// MockPlanStore implements store.PlanStore for testing using testify/mock
type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) CheckPlanLimits(userID string) (*store.PlanLimits, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.PlanLimits), args.Error(1)
}

// MockCLITokensStore implements store.CLITokensStore for testing using testify/mock
type MockCLITokensStore struct {
	mock.Mock
}

func (m *MockCLITokensStore) GenerateToken(userID, name string, expiresInDays int) (*model.GeneratedCLIToken, error) {
	args := m.Called(userID, name, expiresInDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratedCLIToken), args.Error(1)
}

func (m *MockCLITokensStore) RevokeToken(userID, tokenID string) (bool, error) {
	args := m.Called(userID, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCLITokensStore) ListTokens(userID string) ([]model.CLIToken, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CLIToken), args.Error(1)
}

func (m *MockCLITokensStore) AuthenticateToken(plainToken string) (string, error) {
	args := m.Called(plainToken)
	return args.String(0), args.Error(1)
}

// MockProfilesStore implements store.ProfilesStore for testing using testify/mock
type MockProfilesStore struct {
	mock.Mock
}

func (m *MockProfilesStore) GetProfile(userID string) (*model.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfilesStore) FindProfileByEmail(email string) (*model.Profile, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfilesStore) IsAdmin(userID string) bool {
	return m.Called(userID).Bool(0)
}

func (m *MockProfilesStore) EnsureProfile(userID, email string) (*model.Profile, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

// MockTeamStore implements store.TeamStore for testing using testify/mock
type MockTeamStore struct {
	mock.Mock
}

func (m *MockTeamStore) ListMembers(projectID string) ([]store.Member, error) {
	args := m.Called(projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Member), args.Error(1)
}

func (m *MockTeamStore) AddMember(projectID, email, role, invitedBy string) (*store.Member, error) {
	args := m.Called(projectID, email, role, invitedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Member), args.Error(1)
}

func (m *MockTeamStore) UpdateMemberRole(projectID, userID, role string) error {
	return m.Called(projectID, userID, role).Error(0)
}

func (m *MockTeamStore) RemoveMember(projectID, userID string) error {
	return m.Called(projectID, userID).Error(0)
}

// MockFindingsStore implements store.FindingsStore for testing using testify/mock
type MockFindingsStore struct {
	mock.Mock
}

func (m *MockFindingsStore) SaveFindings(findings []model.SecurityFinding) error {
	return m.Called(findings).Error(0)
}

func (m *MockFindingsStore) ListFindings(status string) ([]model.SecurityFinding, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SecurityFinding), args.Error(1)
}

func (m *MockFindingsStore) ResolveFinding(findingID, resolverID string) error {
	return m.Called(findingID, resolverID).Error(0)
}

// MockBlogStore implements store.BlogStore for testing using testify/mock
type MockBlogStore struct {
	mock.Mock
}

func (m *MockBlogStore) ListArticles(publishedOnly bool) ([]model.BlogArticle, error) {
	args := m.Called(publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BlogArticle), args.Error(1)
}

func (m *MockBlogStore) GetArticleBySlug(slug string) (*model.BlogArticle, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BlogArticle), args.Error(1)
}

func (m *MockBlogStore) SaveArticle(article *model.BlogArticle) error {
	return m.Called(article).Error(0)
}

func (m *MockBlogStore) DeleteArticle(articleID string) error {
	return m.Called(articleID).Error(0)
}

// MockAuditLogsStore implements store.AuditLogsStore for testing using testify/mock
type MockAuditLogsStore struct {
	mock.Mock
}

func (m *MockAuditLogsStore) RecentAuditLogs(limit int) ([]model.AuditLog, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity() error {
	return m.Called().Error(0)
}
