// Package config provides configuration management for the envault server.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//   - Built-in defaults
//   - $ENVAULT_CONFIG_PATH/envault.yml (optional)
//   - ENVAULT_* environment variables
//
// The source of every attribute is recorded and shown by
// `envaultctl configuration show`.
//
// # Environment Variables
//
//   - DATABASE_URL: Database connection
//   - ENVAULT_DATA_KEY: Encryption key for secret values
//   - ENVAULT_JWT_SECRET: HMAC secret for dashboard session tokens
//   - ENVAULT_LOG_LEVEL: Logging verbosity
//   - ENVAULT_REDIS_URL: Optional shared rate limiter backend
package config
