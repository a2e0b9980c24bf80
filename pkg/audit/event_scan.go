package audit

import (
	"fmt"
	"strconv"
)

// ScanEvent represents a security scan run from the admin area
type ScanEvent struct {
	UserID   string
	ClientIP string
	Source   string
	Findings int
	// Highest is the highest severity found, empty when nothing was found
	Highest string
}

func (e ScanEvent) MessageID() string {
	return "scan"
}

func (e ScanEvent) Message() string {
	if e.Findings == 0 {
		return fmt.Sprintf("%s scanned %s: no findings", e.UserID, e.Source)
	}
	return fmt.Sprintf("%s scanned %s: %d findings, highest %s", e.UserID, e.Source, e.Findings, e.Highest)
}

func (e ScanEvent) Severity() Severity {
	switch e.Highest {
	case "critical", "high":
		return SeverityWarning
	case "":
		return SeverityInfo
	}
	return SeverityNotice
}

func (e ScanEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ScanEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"resource": e.Source,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "scan",
			"result":    "success",
		},
		SDIDDetail: {
			"findings": strconv.Itoa(e.Findings),
			"highest":  e.Highest,
		},
	}
}
