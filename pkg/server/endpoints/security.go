package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/audit"
	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/scanner"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

// defaultAuditScanRows is how many audit rows a scan reads without a limit
const defaultAuditScanRows = 500

type scanRequest struct {
	Text      string `json:"text"`
	Source    string `json:"source" validate:"max=200"`
	AuditLogs bool   `json:"audit_logs"`
	Limit     int    `json:"limit" validate:"gte=0"`
}

// ScanResponse is the result of a scan
type ScanResponse struct {
	Findings []scanner.Finding `json:"findings"`
	Summary  scanner.Summary   `json:"summary"`
}

// RegisterSecurityEndpoints registers the admin security scanner routes
func RegisterSecurityEndpoints(s *server.Server) {
	findings := s.FindingsStore
	logs := s.AuditLogsStore
	sc := scanner.New(scanner.DefaultPatterns()...)
	maxRows := s.Config.APIListLimitMax
	admin := s.Admin()

	admin.HandleFunc("/security/findings", handleListFindings(findings)).Methods("GET")
	admin.HandleFunc("/security/scan", handleScan(sc, findings, logs, maxRows)).Methods("POST")
	admin.HandleFunc("/security/findings/{id}/resolve", handleResolveFinding(findings)).Methods("POST")
}

func handleListFindings(findings store.FindingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := findings.ListFindings(r.URL.Query().Get("status"))
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if list == nil {
			list = []model.SecurityFinding{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

// auditRows flattens audit logs into the cells the scanner reads
func auditRows(logs []model.AuditLog) []map[string]string {
	rows := make([]map[string]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, map[string]string{
			"action":   l.Action,
			"resource": l.Resource,
			"metadata": l.Metadata,
		})
	}
	return rows
}

func toSecurityFindings(found []scanner.Finding) []model.SecurityFinding {
	out := make([]model.SecurityFinding, 0, len(found))
	for _, f := range found {
		out = append(out, model.SecurityFinding{
			Pattern:  f.Pattern,
			Severity: f.Severity.String(),
			Source:   f.Source,
			Line:     f.Line,
			Column:   f.Column,
			Match:    f.Match,
		})
	}
	return out
}

func handleScan(sc *scanner.Scanner, findings store.FindingsStore, logs store.AuditLogsStore, maxRows int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scanRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Text == "" && !req.AuditLogs {
			respondWithError(w, http.StatusBadRequest, "nothing to scan: set text or audit_logs")
			return
		}

		var found []scanner.Finding
		sources := ""
		if req.Text != "" {
			source := req.Source
			if source == "" {
				source = "request"
			}
			found = append(found, sc.ScanText(source, req.Text)...)
			sources = source
		}
		if req.AuditLogs {
			limit := req.Limit
			if limit == 0 {
				limit = defaultAuditScanRows
			}
			if maxRows > 0 && limit > maxRows {
				limit = maxRows
			}
			rows, err := logs.RecentAuditLogs(limit)
			if err != nil {
				respondWithStoreError(w, err)
				return
			}
			found = append(found, sc.ScanRows("audit_logs", auditRows(rows))...)
			if sources != "" {
				sources += ","
			}
			sources += "audit_logs:" + strconv.Itoa(len(rows))
		}

		if len(found) > 0 {
			if err := findings.SaveFindings(toSecurityFindings(found)); err != nil {
				respondWithStoreError(w, err)
				return
			}
		}

		event := audit.ScanEvent{
			UserID:   currentUser(r).UserID,
			ClientIP: clientIP(r),
			Source:   sources,
			Findings: len(found),
		}
		if highest, ok := scanner.Highest(found); ok {
			event.Highest = highest.String()
		}
		audit.Log(event)

		if found == nil {
			found = []scanner.Finding{}
		}
		respondWithJSON(w, http.StatusOK, ScanResponse{Findings: found, Summary: scanner.Summarize(found)})
	}
}

func handleResolveFinding(findings store.FindingsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findingID := mux.Vars(r)["id"]
		if err := findings.ResolveFinding(findingID, currentUser(r).UserID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"id": findingID, "status": model.FindingStatusResolved})
	}
}
