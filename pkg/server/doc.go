// Package server provides the HTTP server for the envault API.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logs and
// panic recovery. Every request is counted in prometheus metrics; API
// routes are authenticated and rate limited per user.
//
// # Server Setup
//
//	srv := server.NewServer(server.Options{
//		DB:        db,
//		Cipher:    cipher,
//		Config:    cfg,
//		JWTSecret: []byte(os.Getenv("ENVAULT_JWT_SECRET")),
//		Host:      "0.0.0.0",
//		Port:      "8080",
//	})
//	endpoints.RegisterAll(srv)
//	err := srv.Start()
//
// # Endpoints
//
// Routes are registered by the endpoints subpackage. They cover projects,
// environments, secrets with export and import, CLI tokens, team members,
// plan limits, the blog and the admin security scanner.
package server
