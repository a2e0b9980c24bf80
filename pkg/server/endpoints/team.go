package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin member viewer"`
}

type updateMemberRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member viewer"`
}

// RegisterTeamEndpoints registers project team routes
func RegisterTeamEndpoints(s *server.Server) {
	projects := s.ProjectsStore
	team := s.TeamStore
	plans := s.PlanStore
	api := s.API()

	api.HandleFunc("/projects/{id}/members", handleListMembers(projects, team)).Methods("GET")
	api.HandleFunc("/projects/{id}/members", handleAddMember(projects, team, plans)).Methods("POST")
	api.HandleFunc("/projects/{id}/members/{userId}", handleUpdateMember(projects, team)).Methods("PATCH")
	api.HandleFunc("/projects/{id}/members/{userId}", handleRemoveMember(projects, team)).Methods("DELETE")
}

func handleListMembers(projects store.ProjectsStore, team store.TeamStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]
		if !authorizeProject(w, r, projects, projectID, privRead) {
			return
		}

		members, err := team.ListMembers(projectID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if members == nil {
			members = []store.Member{}
		}
		respondWithJSON(w, http.StatusOK, members)
	}
}

func handleAddMember(projects store.ProjectsStore, team store.TeamStore, plans store.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := mux.Vars(r)["id"]
		if !authorizeProject(w, r, projects, projectID, privManage) {
			return
		}

		var req addMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		project, err := projects.GetProject(projectID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		limits, err := plans.CheckPlanLimits(project.OwnerID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		members, err := team.ListMembers(projectID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		// The owner takes one seat
		if !store.Within(int64(len(members))+1, limits.TeamMembersLimit) {
			respondWithJSON(w, http.StatusPaymentRequired, map[string]interface{}{
				"error": store.ErrPlanLimit.Error(),
				"plan":  limits,
			})
			return
		}

		member, err := team.AddMember(projectID, req.Email, req.Role, currentUser(r).UserID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, member)
	}
}

func handleUpdateMember(projects store.ProjectsStore, team store.TeamStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		projectID, userID := vars["id"], vars["userId"]
		if !authorizeProject(w, r, projects, projectID, privManage) {
			return
		}

		var req updateMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := team.UpdateMemberRole(projectID, userID, req.Role); err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"user_id": userID, "role": req.Role})
	}
}

func handleRemoveMember(projects store.ProjectsStore, team store.TeamStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		projectID, userID := vars["id"], vars["userId"]

		// Members may always leave a project themselves
		if userID != currentUser(r).UserID && !authorizeProject(w, r, projects, projectID, privManage) {
			return
		}

		if err := team.RemoveMember(projectID, userID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
