package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/envault/envault/pkg/identity"
	"github.com/envault/envault/pkg/server/middleware"
	"github.com/envault/envault/pkg/validate"
)

// maxBodyBytes bounds JSON request bodies; imports have their own limit
const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeJSON reads a JSON body into dst and runs its validate tags
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return err
	}
	if len(body) > maxBodyBytes {
		return errors.New("request body too large")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return validate.Struct(dst)
}

// currentUser returns the identity set by the auth middleware
func currentUser(r *http.Request) *identity.Identity {
	id, ok := identity.Get(r.Context())
	if !ok {
		return &identity.Identity{}
	}
	return id
}

// clientIP is the address recorded in audit events
func clientIP(r *http.Request) string {
	if id, ok := identity.Get(r.Context()); ok && id.RemoteIP != nil {
		return id.RemoteIP.String()
	}
	return middleware.ClientIP(r, nil)
}
