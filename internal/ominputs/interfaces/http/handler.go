package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"solar-dgr/internal/audit"
	"solar-dgr/internal/auth"
	ominputs "solar-dgr/internal/ominputs/domain"
)

// Handler provides manual O&M input endpoints.
type Handler struct {
	repo        ominputs.Repository
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(repo ominputs.Repository, auditLogger audit.Logger) (*Handler, error) {
	if repo == nil {
		return nil, errors.New("ominputs handler: nil repository")
	}
	return &Handler{repo: repo, auditLogger: auditLogger}, nil
}

// ServeHTTP handles /api/v1/om-inputs.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut, http.MethodPost:
		h.handleUpsert(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID      string  `json:"customer_id"`
		Day             string  `json:"day"`
		BreakdownHours  float64 `json:"breakdown_hours"`
		GenerationHours float64 `json:"generation_hours"`
		OperatingHours  float64 `json:"operating_hours"`
		Weather         string  `json:"weather"`
		Notes           string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Day); err != nil {
		http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	inputs := ominputs.Inputs{
		CustomerID:      req.CustomerID,
		Day:             req.Day,
		BreakdownHours:  req.BreakdownHours,
		GenerationHours: req.GenerationHours,
		OperatingHours:  req.OperatingHours,
		Weather:         req.Weather,
		Notes:           req.Notes,
		Author:          auth.SubjectFromContext(r.Context()),
		UpdatedAt:       time.Now().UTC(),
	}
	if err := inputs.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.repo.Upsert(r.Context(), inputs); err != nil {
		http.Error(w, "save inputs error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(inputsResponse(inputs))
	h.logAudit(r, inputs)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	day := r.URL.Query().Get("day")
	if customerID == "" || day == "" {
		http.Error(w, "customer_id and day are required", http.StatusBadRequest)
		return
	}

	inputs, err := h.repo.Find(r.Context(), customerID, day)
	if err != nil {
		if errors.Is(err, ominputs.ErrNotFound) {
			http.Error(w, "inputs not found", http.StatusNotFound)
			return
		}
		http.Error(w, "load inputs error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(inputsResponse(*inputs))
}

func (h *Handler) logAudit(r *http.Request, inputs ominputs.Inputs) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"breakdown_hours":  inputs.BreakdownHours,
		"generation_hours": inputs.GenerationHours,
		"operating_hours":  inputs.OperatingHours,
	})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:      auth.SubjectFromContext(r.Context()),
		Role:       string(auth.RoleFromContext(r.Context())),
		Action:     audit.ActionInputsUpsert,
		CustomerID: inputs.CustomerID,
		ReportDay:  inputs.Day,
		Metadata:   payload,
		IP:         audit.ClientIP(r),
		UserAgent:  r.UserAgent(),
	})
}

func inputsResponse(inputs ominputs.Inputs) map[string]any {
	return map[string]any{
		"customer_id":      inputs.CustomerID,
		"day":              inputs.Day,
		"breakdown_hours":  inputs.BreakdownHours,
		"generation_hours": inputs.GenerationHours,
		"operating_hours":  inputs.OperatingHours,
		"weather":          inputs.Weather,
		"notes":            inputs.Notes,
		"author":           inputs.Author,
		"updated_at":       inputs.UpdatedAt,
	}
}
