package audit

import "fmt"

// TokenOperation is what happened to a CLI token
type TokenOperation string

const (
	TokenIssue  TokenOperation = "issue"
	TokenRevoke TokenOperation = "revoke"
)

// TokenEvent represents issuing or revoking a CLI token
type TokenEvent struct {
	UserID       string
	ClientIP     string
	TokenID      string
	Name         string
	Operation    TokenOperation
	Success      bool
	ErrorMessage string
}

func (e TokenEvent) MessageID() string {
	return "cli-token"
}

func (e TokenEvent) Message() string {
	verb := "issued"
	if e.Operation == TokenRevoke {
		verb = "revoked"
	}
	if e.Success {
		return fmt.Sprintf("%s %s CLI token %s", e.UserID, verb, e.describe())
	}
	return withError(fmt.Sprintf("%s failed to %s CLI token %s", e.UserID, e.Operation, e.describe()), e.ErrorMessage)
}

func (e TokenEvent) describe() string {
	if e.Name != "" && e.TokenID != "" {
		return fmt.Sprintf("%q (%s)", e.Name, e.TokenID)
	}
	if e.Name != "" {
		return fmt.Sprintf("%q", e.Name)
	}
	return e.TokenID
}

func (e TokenEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e TokenEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TokenEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": "token:" + e.TokenID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": string(e.Operation),
			"result":    result(e.Success),
		},
	}
}

// AuthEvent represents an authentication attempt
type AuthEvent struct {
	UserID       string
	ClientIP     string
	Method       string
	Success      bool
	ErrorMessage string
}

func (e AuthEvent) MessageID() string {
	return "authn"
}

func (e AuthEvent) Message() string {
	user := e.UserID
	if user == "" {
		user = "unknown user"
	}
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with %s", user, e.Method)
	}
	return withError(fmt.Sprintf("%s failed to authenticate with %s", user, e.Method), e.ErrorMessage)
}

func (e AuthEvent) Severity() Severity {
	return outcomeSeverity(e.Success)
}

func (e AuthEvent) Facility() int {
	return FacilityAuth
}

func (e AuthEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"method": e.Method,
			"user":   e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "authenticate",
			"result":    result(e.Success),
		},
	}
}

// AccessDeniedEvent represents a request rejected by a project or admin guard
type AccessDeniedEvent struct {
	UserID    string
	ClientIP  string
	Resource  string
	Privilege string
}

func (e AccessDeniedEvent) MessageID() string {
	return "access-denied"
}

func (e AccessDeniedEvent) Message() string {
	return fmt.Sprintf("%s was denied %s access to %s", e.UserID, e.Privilege, e.Resource)
}

func (e AccessDeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e AccessDeniedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccessDeniedEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource":  e.Resource,
			"privilege": e.Privilege,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "check",
			"result":    "failure",
		},
	}
}
