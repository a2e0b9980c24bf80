package endpoints

import (
	"net/http"

	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

// RegisterPlanEndpoints registers GET /api/plan
func RegisterPlanEndpoints(s *server.Server) {
	s.API().HandleFunc("/plan", handlePlan(s.PlanStore)).Methods("GET")
}

func handlePlan(plans store.PlanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limits, err := plans.CheckPlanLimits(currentUser(r).UserID)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, limits)
	}
}
