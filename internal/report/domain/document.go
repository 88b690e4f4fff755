package report

import (
	"errors"
	"time"
)

var (
	// ErrEmptyCustomer is returned when a report request names no customer.
	ErrEmptyCustomer = errors.New("report: empty customer id")
	// ErrInvalidReportDate is returned when the report date is zero.
	ErrInvalidReportDate = errors.New("report: invalid report date")
	// ErrDraftNotFound is returned when no draft exists for (customer, day).
	ErrDraftNotFound = errors.New("report: draft not found")
)

// Draft lifecycle states.
const (
	DraftStatusDraft    = "draft"
	DraftStatusApproved = "approved"
)

// Row is one line of the report's channel table.
type Row struct {
	Name       string
	DailyKWh   float64
	MonthlyKWh float64
	YearlyKWh  float64
}

// Document is the fully computed report for one (customer, report date) pair.
type Document struct {
	CustomerID string
	ReportDate time.Time
	DataDay    string

	Aggregation AggregationResult
	KPI         KPIResult
	Rows        []Row
}

// BuildRows joins the three window aggregates on the channel identifier so
// totals for the same channel stay comparable across windows.
func BuildRows(agg AggregationResult) []Row {
	rows := make([]Row, 0, len(agg.Channels))
	for i, channel := range agg.Channels {
		name := channel
		if i < len(agg.InverterNames) {
			name = agg.InverterNames[i]
		}
		rows = append(rows, Row{
			Name:       name,
			DailyKWh:   agg.Daily[channel],
			MonthlyKWh: agg.Monthly[channel],
			YearlyKWh:  agg.Yearly[channel],
		})
	}
	return rows
}

// Draft is the persisted report outcome, keyed by (customer, data day).
// Saving is idempotent: regenerating a report overwrites the same draft.
type Draft struct {
	CustomerID string
	Day        string
	TotalDaily float64
	TotalMTD   float64
	TotalYTD   float64
	PLFPercent float64
	FilePath   string
	Status     string
	UpdatedAt  time.Time
}

// NewDraft builds a draft from a computed document and its export artifact.
func NewDraft(doc *Document, filePath string, now time.Time) Draft {
	return Draft{
		CustomerID: doc.CustomerID,
		Day:        doc.DataDay,
		TotalDaily: doc.KPI.TotalDaily,
		TotalMTD:   doc.KPI.TotalMTD,
		TotalYTD:   doc.KPI.TotalYTD,
		PLFPercent: doc.KPI.PLFPercent,
		FilePath:   filePath,
		Status:     DraftStatusDraft,
		UpdatedAt:  now,
	}
}
