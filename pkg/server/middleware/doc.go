// Package middleware holds the HTTP middleware of the envault server:
// authentication, the admin guard, rate limiting and metrics.
package middleware
