package endpoints

import (
	"github.com/envault/envault/pkg/server"
)

// RegisterAll registers all API endpoints on the server. Public routes
// come first so they are matched before the authenticated /api subrouter.
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterBlogEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterProjectsEndpoints(srv)
	RegisterSecretsEndpoints(srv)
	RegisterTransferEndpoints(srv)
	RegisterTokensEndpoints(srv)
	RegisterTeamEndpoints(srv)
	RegisterPlanEndpoints(srv)
	RegisterSecurityEndpoints(srv)
}
