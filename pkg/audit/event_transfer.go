package audit

import (
	"fmt"
	"strconv"
)

// ExportEvent represents downloading an environment in a file format
type ExportEvent struct {
	UserID        string
	ClientIP      string
	EnvironmentID string
	Format        string
	Count         int
	Success       bool
	ErrorMessage  string
}

func (e ExportEvent) MessageID() string {
	return "export"
}

func (e ExportEvent) Message() string {
	resource := EnvironmentResource(e.EnvironmentID)
	if e.Success {
		return fmt.Sprintf("%s exported %d secrets of %s as %s", e.UserID, e.Count, resource, e.Format)
	}
	return withError(fmt.Sprintf("%s tried to export %s", e.UserID, resource), e.ErrorMessage)
}

// Exports carry every value in clear text
func (e ExportEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ExportEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ExportEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": EnvironmentResource(e.EnvironmentID),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "export",
			"result":    result(e.Success),
		},
		SDIDDetail: {
			"format": e.Format,
			"count":  strconv.Itoa(e.Count),
		},
	}
}

// ImportEvent represents loading a file of secrets into an environment
type ImportEvent struct {
	UserID        string
	ClientIP      string
	EnvironmentID string
	Format        string
	Imported      int
	Skipped       int
	Success       bool
	ErrorMessage  string
}

func (e ImportEvent) MessageID() string {
	return "import"
}

func (e ImportEvent) Message() string {
	resource := EnvironmentResource(e.EnvironmentID)
	if e.Success {
		return fmt.Sprintf("%s imported %d secrets into %s (%d skipped)", e.UserID, e.Imported, resource, e.Skipped)
	}
	return withError(fmt.Sprintf("%s tried to import into %s", e.UserID, resource), e.ErrorMessage)
}

func (e ImportEvent) Severity() Severity {
	return outcomeSeverity(e.Success)
}

func (e ImportEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ImportEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": EnvironmentResource(e.EnvironmentID),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "import",
			"result":    result(e.Success),
		},
		SDIDDetail: {
			"format":   e.Format,
			"imported": strconv.Itoa(e.Imported),
			"skipped":  strconv.Itoa(e.Skipped),
		},
	}
}
