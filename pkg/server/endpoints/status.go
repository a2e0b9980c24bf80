package endpoints

import (
	"net/http"
	"os"
	"time"

	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

// StatusResponse is the body of GET /
type StatusResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

// RegisterStatusEndpoints registers the unauthenticated status routes
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
	s.Router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("ENVAULT_VERSION")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Service: "envault", Version: version})
	}
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:     "ok",
			Components: map[string]string{"database": "up"},
			Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		}
		code := http.StatusOK
		if err := health.CheckConnectivity(); err != nil {
			response.Status = "degraded"
			response.Components["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		respondWithJSON(w, code, response)
	}
}
