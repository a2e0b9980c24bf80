package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

func TestAddMember(t *testing.T) {
	setup := func(limit int, members int) (*MockProjectsStore, *MockTeamStore, *MockPlanStore) {
		projects := &MockProjectsStore{}
		team := &MockTeamStore{}
		plans := &MockPlanStore{}
		projects.On("ProjectRole", "proj-1", "owner-1").Return(model.TeamRoleOwner)
		projects.On("GetProject", "proj-1").Return(&model.Project{ID: "proj-1", OwnerID: "owner-1"}, nil)
		plans.On("CheckPlanLimits", "owner-1").Return(&store.PlanLimits{TeamMembersLimit: limit}, nil)
		team.On("ListMembers", "proj-1").Return(make([]store.Member, members), nil)
		return projects, team, plans
	}

	t.Run("added", func(t *testing.T) {
		projects, team, plans := setup(10, 2)
		team.On("AddMember", "proj-1", "bob@example.com", "member", "owner-1").
			Return(&store.Member{UserID: "bob", Email: "bob@example.com", Role: "member"}, nil)

		req := requestWithIdentity("POST", "/api/projects/proj-1/members", `{"email":"bob@example.com","role":"member"}`, "owner-1")
		req = withMuxVars(req, map[string]string{"id": "proj-1"})
		w := httptest.NewRecorder()
		handleAddMember(projects, team, plans)(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("owner counts as a seat", func(t *testing.T) {
		projects, team, plans := setup(1, 0)

		req := requestWithIdentity("POST", "/api/projects/proj-1/members", `{"email":"bob@example.com","role":"member"}`, "owner-1")
		req = withMuxVars(req, map[string]string{"id": "proj-1"})
		w := httptest.NewRecorder()
		handleAddMember(projects, team, plans)(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
		team.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner role cannot be granted", func(t *testing.T) {
		projects, team, plans := setup(10, 0)

		req := requestWithIdentity("POST", "/api/projects/proj-1/members", `{"email":"bob@example.com","role":"owner"}`, "owner-1")
		req = withMuxVars(req, map[string]string{"id": "proj-1"})
		w := httptest.NewRecorder()
		handleAddMember(projects, team, plans)(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		projects, team, plans := setup(store.Unlimited, 0)
		team.On("AddMember", "proj-1", "nobody@example.com", "viewer", "owner-1").Return(nil, store.ErrProfileNotFound)

		req := requestWithIdentity("POST", "/api/projects/proj-1/members", `{"email":"nobody@example.com","role":"viewer"}`, "owner-1")
		req = withMuxVars(req, map[string]string{"id": "proj-1"})
		w := httptest.NewRecorder()
		handleAddMember(projects, team, plans)(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemoveMember(t *testing.T) {
	t.Run("members may leave", func(t *testing.T) {
		projects := &MockProjectsStore{}
		team := &MockTeamStore{}
		team.On("RemoveMember", "proj-1", "bob").Return(nil)

		req := requestWithIdentity("DELETE", "/api/projects/proj-1/members/bob", "", "bob")
		req = withMuxVars(req, map[string]string{"id": "proj-1", "userId": "bob"})
		w := httptest.NewRecorder()
		handleRemoveMember(projects, team)(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		projects.AssertNotCalled(t, "ProjectRole", mock.Anything, mock.Anything)
	})

	t.Run("members cannot remove others", func(t *testing.T) {
		projects := &MockProjectsStore{}
		team := &MockTeamStore{}
		projects.On("ProjectRole", "proj-1", "bob").Return(model.TeamRoleMember)

		req := requestWithIdentity("DELETE", "/api/projects/proj-1/members/carol", "", "bob")
		req = withMuxVars(req, map[string]string{"id": "proj-1", "userId": "carol"})
		w := httptest.NewRecorder()
		handleRemoveMember(projects, team)(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUpdateMember(t *testing.T) {
	projects := &MockProjectsStore{}
	team := &MockTeamStore{}
	projects.On("ProjectRole", "proj-1", "owner-1").Return(model.TeamRoleOwner)
	team.On("UpdateMemberRole", "proj-1", "bob", "admin").Return(nil)

	req := requestWithIdentity("PATCH", "/api/projects/proj-1/members/bob", `{"role":"admin"}`, "owner-1")
	req = withMuxVars(req, map[string]string{"id": "proj-1", "userId": "bob"})
	w := httptest.NewRecorder()
	handleUpdateMember(projects, team)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"bob","role":"admin"}`, w.Body.String())
}
