package audit

import (
	"fmt"
	"strconv"
)

// SecretReadEvent represents reading one secret or listing an environment
type SecretReadEvent struct {
	UserID        string
	ClientIP      string
	EnvironmentID string
	// Key is empty when the whole environment was listed
	Key          string
	Revealed     bool
	Success      bool
	ErrorMessage string
}

func (e SecretReadEvent) resource() string {
	if e.Key == "" {
		return EnvironmentResource(e.EnvironmentID)
	}
	return SecretResource(e.EnvironmentID, e.Key)
}

func (e SecretReadEvent) MessageID() string {
	return "secret-read"
}

func (e SecretReadEvent) Message() string {
	verb := "read"
	if e.Key == "" {
		verb = "listed"
	}
	if e.Success {
		return fmt.Sprintf("%s %s %s", e.UserID, verb, e.resource())
	}
	return withError(fmt.Sprintf("%s tried to read %s", e.UserID, e.resource()), e.ErrorMessage)
}

func (e SecretReadEvent) Severity() Severity {
	return outcomeSeverity(e.Success)
}

func (e SecretReadEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SecretReadEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": e.resource(),
			"revealed": strconv.FormatBool(e.Revealed),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "read",
			"result":    result(e.Success),
		},
	}
}

// SecretWriteEvent represents an upsert of a secret value
type SecretWriteEvent struct {
	UserID        string
	ClientIP      string
	EnvironmentID string
	Key           string
	SecretID      string
	Success       bool
	ErrorMessage  string
}

func (e SecretWriteEvent) MessageID() string {
	return "secret-write"
}

func (e SecretWriteEvent) Message() string {
	resource := SecretResource(e.EnvironmentID, e.Key)
	if e.Success {
		return fmt.Sprintf("%s updated %s", e.UserID, resource)
	}
	return withError(fmt.Sprintf("%s tried to update %s", e.UserID, resource), e.ErrorMessage)
}

func (e SecretWriteEvent) Severity() Severity {
	return outcomeSeverity(e.Success)
}

func (e SecretWriteEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SecretWriteEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": SecretResource(e.EnvironmentID, e.Key),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "update",
			"result":    result(e.Success),
		},
	}
	if e.SecretID != "" {
		sd[SDIDSubject]["id"] = e.SecretID
	}
	return sd
}

// SecretDeleteEvent represents the deletion of a secret by id
type SecretDeleteEvent struct {
	UserID       string
	ClientIP     string
	SecretID     string
	Success      bool
	ErrorMessage string
}

func (e SecretDeleteEvent) MessageID() string {
	return "secret-delete"
}

func (e SecretDeleteEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s deleted secret %s", e.UserID, e.SecretID)
	}
	return withError(fmt.Sprintf("%s tried to delete secret %s", e.UserID, e.SecretID), e.ErrorMessage)
}

func (e SecretDeleteEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e SecretDeleteEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SecretDeleteEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": "secret:" + e.SecretID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "delete",
			"result":    result(e.Success),
		},
	}
}
