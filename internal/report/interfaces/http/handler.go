package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"solar-dgr/internal/audit"
	"solar-dgr/internal/auth"
	customer "solar-dgr/internal/customer/domain"
	ominputs "solar-dgr/internal/ominputs/domain"
	reportapp "solar-dgr/internal/report/application"
	report "solar-dgr/internal/report/domain"
	"solar-dgr/internal/report/interfaces"
	telemetry "solar-dgr/internal/telemetry/domain"
)

const dateLayout = "2006-01-02"

// ReportMailer delivers an exported report to recipients.
type ReportMailer interface {
	SendReport(to []string, subject, body, attachment string) error
}

// Handler provides report HTTP endpoints.
type Handler struct {
	service     *reportapp.ReportService
	exporter    *interfaces.WorkbookExporter
	inputs      ominputs.Repository
	mailer      ReportMailer
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *reportapp.ReportService, exporter *interfaces.WorkbookExporter, inputs ominputs.Repository, mailer ReportMailer, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	return &Handler{service: service, exporter: exporter, inputs: inputs, mailer: mailer, auditLogger: auditLogger}, nil
}

// ServeHTTP handles report routes under /api/v1/reports.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/reports/generate" && r.Method == http.MethodPost {
		h.handleGenerate(w, r)
		return
	}
	if path == "/api/v1/reports" && r.Method == http.MethodGet {
		h.handleList(w, r)
		return
	}
	if strings.HasPrefix(path, "/api/v1/reports/") {
		rest := strings.TrimPrefix(path, "/api/v1/reports/")
		h.handleByKey(w, r, rest)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string `json:"customer_id"`
		ReportDate string `json:"report_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	reportDate, err := time.Parse(dateLayout, req.ReportDate)
	if err != nil {
		http.Error(w, "report_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	doc, err := h.service.Build(r.Context(), req.CustomerID, reportDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	manual, err := h.findInputs(r, doc.CustomerID, doc.DataDay)
	if err != nil {
		http.Error(w, "load manual inputs error", http.StatusInternalServerError)
		return
	}
	filePath := ""
	if h.exporter != nil {
		filePath, err = h.exporter.Export(doc, manual)
		if err != nil {
			http.Error(w, "export workbook error", http.StatusInternalServerError)
			return
		}
	}

	draft, err := h.service.SaveDraft(r.Context(), doc, filePath)
	if err != nil {
		http.Error(w, "save draft error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(draftResponse(draft))
	h.logAudit(r, draft.CustomerID, draft.Day, audit.ActionReportGenerate, map[string]any{
		"report_date": req.ReportDate,
		"file_path":   draft.FilePath,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.service.ListDrafts(r.Context())
	if err != nil {
		http.Error(w, "list drafts error", http.StatusInternalServerError)
		return
	}
	resp := make([]map[string]any, 0, len(drafts))
	for _, draft := range drafts {
		resp = append(resp, draftResponse(draft))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleByKey(w http.ResponseWriter, r *http.Request, rest string) {
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	customerID, day := parts[0], parts[1]

	if len(parts) == 2 && r.Method == http.MethodGet {
		h.handleGet(w, r, customerID, day)
		return
	}
	if len(parts) == 3 {
		switch parts[2] {
		case "approve":
			if r.Method == http.MethodPost {
				h.handleApprove(w, r, customerID, day)
				return
			}
		case "send":
			if r.Method == http.MethodPost {
				h.handleSend(w, r, customerID, day)
				return
			}
		case "export.pdf":
			if r.Method == http.MethodGet {
				h.handleExportPDF(w, r, customerID, day)
				return
			}
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, customerID, day string) {
	draft, err := h.service.FindDraft(r.Context(), customerID, day)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(draftResponse(*draft))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request, customerID, day string) {
	if err := h.service.Approve(r.Context(), customerID, day); err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"customer_id": customerID,
		"day":         day,
		"status":      report.DraftStatusApproved,
	})
	h.logAudit(r, customerID, day, audit.ActionReportApprove, nil)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request, customerID, day string) {
	if h.mailer == nil {
		http.Error(w, "mailer not configured", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Recipients []string `json:"recipients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(req.Recipients) == 0 {
		http.Error(w, "recipients is required", http.StatusBadRequest)
		return
	}

	draft, err := h.service.FindDraft(r.Context(), customerID, day)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if draft.FilePath == "" {
		http.Error(w, "draft has no export artifact", http.StatusConflict)
		return
	}

	subject := customerID + " DGR " + day
	body := "Daily generation report for " + customerID + " (" + day + ") attached."
	if err := h.mailer.SendReport(req.Recipients, subject, body, draft.FilePath); err != nil {
		http.Error(w, "send report error", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"customer_id": customerID,
		"day":         day,
		"sent_to":     req.Recipients,
	})
	h.logAudit(r, customerID, day, audit.ActionReportSend, map[string]any{
		"recipients": req.Recipients,
	})
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request, customerID, day string) {
	dataDay, err := time.Parse(dateLayout, day)
	if err != nil {
		http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	doc, err := h.service.Build(r.Context(), customerID, dataDay.AddDate(0, 0, 1))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	data, err := interfaces.BuildSummaryPDF(doc)
	if err != nil {
		http.Error(w, "export pdf error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// findInputs returns nil without error when no inputs were entered for the
// day; a store failure is surfaced so the report is not exported with the
// manual fields silently blank.
func (h *Handler) findInputs(r *http.Request, customerID, day string) (*ominputs.Inputs, error) {
	if h.inputs == nil {
		return nil, nil
	}
	manual, err := h.inputs.Find(r.Context(), customerID, day)
	if err != nil {
		if errors.Is(err, ominputs.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return manual, nil
}

func (h *Handler) logAudit(r *http.Request, customerID, day, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:      auth.SubjectFromContext(r.Context()),
		Role:       string(auth.RoleFromContext(r.Context())),
		Action:     action,
		CustomerID: customerID,
		ReportDay:  day,
		Metadata:   payload,
		IP:         audit.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}

func draftResponse(draft report.Draft) map[string]any {
	return map[string]any{
		"customer_id": draft.CustomerID,
		"day":         draft.Day,
		"total_daily": draft.TotalDaily,
		"total_mtd":   draft.TotalMTD,
		"total_ytd":   draft.TotalYTD,
		"plf_percent": draft.PLFPercent,
		"file_path":   draft.FilePath,
		"status":      draft.Status,
		"updated_at":  draft.UpdatedAt,
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, customer.ErrProfileNotFound):
		http.Error(w, "unknown customer", http.StatusNotFound)
	case errors.Is(err, report.ErrDraftNotFound):
		http.Error(w, "draft not found", http.StatusNotFound)
	case errors.Is(err, telemetry.ErrSourceUnavailable):
		http.Error(w, "telemetry source unavailable", http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
