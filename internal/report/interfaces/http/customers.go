package http

import (
	"encoding/json"
	"errors"
	"net/http"

	reportapp "solar-dgr/internal/report/application"
)

// CustomersHandler lists the customers the registry knows about.
type CustomersHandler struct {
	service *reportapp.ReportService
}

// NewCustomersHandler constructs a CustomersHandler.
func NewCustomersHandler(service *reportapp.ReportService) (*CustomersHandler, error) {
	if service == nil {
		return nil, errors.New("customers handler: nil service")
	}
	return &CustomersHandler{service: service}, nil
}

// ServeHTTP handles GET /api/v1/customers.
func (h *CustomersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"customers": h.service.Customers(),
	})
}
