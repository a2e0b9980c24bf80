package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

// ProjectResponse is a project with the caller's role in it
type ProjectResponse struct {
	model.Project
	Role         string              `json:"role"`
	Environments []model.Environment `json:"environments,omitempty"`
}

type createProjectRequest struct {
	Name        string `json:"name" validate:"required,resourcename"`
	Description string `json:"description" validate:"max=500"`
}

type createEnvironmentRequest struct {
	Name string `json:"name" validate:"required,resourcename"`
}

// RegisterProjectsEndpoints registers project and environment routes
func RegisterProjectsEndpoints(s *server.Server) {
	projects := s.ProjectsStore
	environments := s.EnvironmentsStore
	plans := s.PlanStore
	api := s.API()

	api.HandleFunc("/projects", handleListProjects(projects)).Methods("GET")
	api.HandleFunc("/projects", handleCreateProject(projects, plans)).Methods("POST")
	api.HandleFunc("/projects/{id}", handleGetProject(projects, environments)).Methods("GET")
	api.HandleFunc("/projects/{id}", handleDeleteProject(projects)).Methods("DELETE")

	api.HandleFunc("/projects/{id}/environments", handleListEnvironments(projects, environments)).Methods("GET")
	api.HandleFunc("/projects/{id}/environments", handleCreateEnvironment(projects, environments)).Methods("POST")
	api.HandleFunc("/environments/{id}", handleDeleteEnvironment(projects, environments)).Methods("DELETE")
}

func handleListProjects(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		list, err := projects.ListProjects(user.UserID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		response := make([]ProjectResponse, 0, len(list))
		for _, p := range list {
			role := model.TeamRoleOwner
			if p.OwnerID != user.UserID {
				role = projects.ProjectRole(p.ID, user.UserID)
			}
			response = append(response, ProjectResponse{Project: p, Role: role})
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleCreateProject(projects store.ProjectsStore, plans store.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)

		var req createProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		limits, err := plans.CheckPlanLimits(user.UserID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if !limits.CanCreateProject {
			respondWithJSON(w, http.StatusPaymentRequired, map[string]interface{}{
				"error": store.ErrPlanLimit.Error(),
				"plan":  limits,
			})
			return
		}

		project, err := projects.CreateProject(user.UserID, req.Name, req.Description)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, ProjectResponse{Project: *project, Role: model.TeamRoleOwner})
	}
}

func handleGetProject(projects store.ProjectsStore, environments store.EnvironmentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]
		if !authorizeProject(w, r, projects, projectID, privRead) {
			return
		}

		project, err := projects.GetProject(projectID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		envs, err := environments.ListEnvironments(projectID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, ProjectResponse{
			Project:      *project,
			Role:         projects.ProjectRole(projectID, currentUser(r).UserID),
			Environments: envs,
		})
	}
}

func handleDeleteProject(projects store.ProjectsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]
		if !authorizeProject(w, r, projects, projectID, privManage) {
			return
		}

		if err := projects.DeleteProject(projectID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListEnvironments(projects store.ProjectsStore, environments store.EnvironmentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]
		if !authorizeProject(w, r, projects, projectID, privRead) {
			return
		}

		envs, err := environments.ListEnvironments(projectID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if envs == nil {
			envs = []model.Environment{}
		}
		respondWithJSON(w, http.StatusOK, envs)
	}
}

func handleCreateEnvironment(projects store.ProjectsStore, environments store.EnvironmentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]
		if !authorizeProject(w, r, projects, projectID, privWrite) {
			return
		}

		var req createEnvironmentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		env, err := environments.CreateEnvironment(projectID, req.Name)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, env)
	}
}

func handleDeleteEnvironment(projects store.ProjectsStore, environments store.EnvironmentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		environmentID := mux.Vars(r)["id"]
		if _, ok := authorizeEnvironment(w, r, environments, projects, environmentID, privManage); !ok {
			return
		}

		if err := environments.DeleteEnvironment(environmentID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
