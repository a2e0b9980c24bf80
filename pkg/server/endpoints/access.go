package endpoints

import (
	"errors"
	"net/http"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// privilege is what a request needs on a project
type privilege string

const (
	privRead   privilege = "read"
	privWrite  privilege = "write"
	privManage privilege = "manage"
)

func allowed(projects store.ProjectsStore, projectID, userID string, priv privilege) bool {
	switch priv {
	case privRead:
		return projects.HasProjectAccess(projectID, userID)
	case privWrite:
		return projects.CanWrite(projectID, userID)
	case privManage:
		role := projects.ProjectRole(projectID, userID)
		return role == model.TeamRoleOwner || role == model.TeamRoleAdmin
	}
	return false
}

// authorizeProject answers 403 and records an audit event unless the
// current user holds priv on the project
func authorizeProject(w http.ResponseWriter, r *http.Request, projects store.ProjectsStore, projectID string, priv privilege) bool {
	user := currentUser(r)
	if allowed(projects, projectID, user.UserID, priv) {
		return true
	}
	audit.Log(audit.AccessDeniedEvent{
		UserID:    user.UserID,
		ClientIP:  clientIP(r),
		Resource:  "project:" + projectID,
		Privilege: string(priv),
	})
	respondWithError(w, http.StatusForbidden, "you do not have "+string(priv)+" access to this project")
	return false
}

// authorizeEnvironment resolves the environment's project and authorizes it
func authorizeEnvironment(w http.ResponseWriter, r *http.Request, environments store.EnvironmentsStore, projects store.ProjectsStore, environmentID string, priv privilege) (*model.Environment, bool) {
	env, err := environments.GetEnvironment(environmentID)
	if err != nil {
		respondWithStoreError(w, err)
		return nil, false
	}
	if !authorizeProject(w, r, projects, env.ProjectID, priv) {
		return nil, false
	}
	return env, true
}

// respondWithStoreError maps store sentinel errors to HTTP statuses
func respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, store.ErrEnvironmentNotFound),
		errors.Is(err, store.ErrSecretNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrMemberNotFound),
		errors.Is(err, store.ErrArticleNotFound),
		errors.Is(err, store.ErrFindingNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEnvironmentExists),
		errors.Is(err, store.ErrMemberExists):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidRole):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrTokenLimit),
		errors.Is(err, store.ErrTokenInvalid):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrPlanLimit):
		respondWithError(w, http.StatusPaymentRequired, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
