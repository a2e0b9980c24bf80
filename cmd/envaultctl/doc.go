// Command envaultctl runs and operates an envault server.
//
// Server-side commands talk to Postgres directly:
//
//	export ENVAULT_DATA_KEY="$(envaultctl data-key generate)"
//	envaultctl db migrate
//	envaultctl server
//
// Client-side commands use the REST API with a CLI token saved by login:
//
//	envaultctl login --server https://vault.example.com --token envault_...
//	envaultctl secrets export --env <environment-id> --format json
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ENVAULT_DATA_KEY: Base64-encoded 256-bit key for secret encryption
//   - ENVAULT_JWT_SECRET: HMAC key for session JWTs
//   - ENVAULT_CONFIG_PATH: directory holding envault.yml
//   - ENVAULT_CLIENT_CONFIG: client settings file written by login
//   - PORT, BIND_ADDRESS: server listen address
package main
