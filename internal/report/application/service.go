package application

import (
	"context"
	"errors"
	"time"

	customer "solar-dgr/internal/customer/domain"
	"solar-dgr/internal/observability/metrics"
	report "solar-dgr/internal/report/domain"
	telemetry "solar-dgr/internal/telemetry/domain"
)

// WindowLoader retrieves normalized readings for an inclusive day range.
type WindowLoader interface {
	Load(ctx context.Context, collection string, startDay, endDay time.Time) ([]telemetry.NormalizedReading, error)
}

// ProfileSource resolves customer profiles.
type ProfileSource interface {
	Get(id string) (customer.Profile, error)
	List() []string
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ReportService computes daily generation reports. Stateless across calls;
// every entity is constructed fresh per request, so concurrent requests need
// no coordination.
type ReportService struct {
	profiles ProfileSource
	loader   WindowLoader
	drafts   report.DraftRepository
	clock    Clock
}

// NewReportService constructs the service.
func NewReportService(profiles ProfileSource, loader WindowLoader, drafts report.DraftRepository, clock Clock) (*ReportService, error) {
	if profiles == nil {
		return nil, errors.New("report service: nil profile source")
	}
	if loader == nil {
		return nil, errors.New("report service: nil window loader")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReportService{profiles: profiles, loader: loader, drafts: drafts, clock: clock}, nil
}

// Build runs the full aggregation pipeline for one (customer, report date).
// The YTD window is loaded once; it covers the daily and MTD windows too.
// A store failure propagates as telemetry.ErrSourceUnavailable; an empty
// schema resolution yields a zero-total document, not an error.
func (s *ReportService) Build(ctx context.Context, customerID string, reportDate time.Time) (*report.Document, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportGenerate(result, time.Since(start))
	}()

	if customerID == "" {
		result = metrics.ResultError
		return nil, report.ErrEmptyCustomer
	}
	if reportDate.IsZero() {
		result = metrics.ResultError
		return nil, report.ErrInvalidReportDate
	}
	profile, err := s.profiles.Get(customerID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	dataDay := report.DataDay(reportDate)
	loadStart := time.Now()
	readings, err := s.loader.Load(ctx, profile.Collection, report.YearStart(dataDay), dataDay)
	if err != nil {
		metrics.ObserveWindowLoad(metrics.ResultError, 0, time.Since(loadStart))
		result = metrics.ResultError
		return nil, err
	}
	metrics.ObserveWindowLoad(metrics.ResultSuccess, len(readings), time.Since(loadStart))

	resolution, err := customer.Resolve(profile, telemetry.Columns(readings))
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	table := report.BuildTable(readings, resolution, profile.ValueScale())
	agg := report.Aggregate(table, profile, reportDate)
	kpi := report.ComputeKPI(profile, agg)

	return &report.Document{
		CustomerID:  customerID,
		ReportDate:  reportDate,
		DataDay:     agg.DataDay,
		Aggregation: agg,
		KPI:         kpi,
		Rows:        report.BuildRows(agg),
	}, nil
}

// SaveDraft persists the report outcome idempotently keyed by
// (customer, data day). Regenerating overwrites the existing draft.
func (s *ReportService) SaveDraft(ctx context.Context, doc *report.Document, filePath string) (report.Draft, error) {
	if doc == nil {
		return report.Draft{}, errors.New("report service: nil document")
	}
	if s.drafts == nil {
		return report.Draft{}, errors.New("report service: no draft repository")
	}
	draft := report.NewDraft(doc, filePath, s.clock.Now())
	if err := s.drafts.Save(ctx, draft); err != nil {
		metrics.IncDraftSave(metrics.ResultError)
		return report.Draft{}, err
	}
	metrics.IncDraftSave(metrics.ResultSuccess)
	return draft, nil
}

// ListDrafts returns saved drafts, newest data day first.
func (s *ReportService) ListDrafts(ctx context.Context) ([]report.Draft, error) {
	if s.drafts == nil {
		return nil, errors.New("report service: no draft repository")
	}
	return s.drafts.List(ctx)
}

// FindDraft returns one draft or report.ErrDraftNotFound.
func (s *ReportService) FindDraft(ctx context.Context, customerID, day string) (*report.Draft, error) {
	if s.drafts == nil {
		return nil, errors.New("report service: no draft repository")
	}
	return s.drafts.Find(ctx, customerID, day)
}

// Approve transitions a draft to approved.
func (s *ReportService) Approve(ctx context.Context, customerID, day string) error {
	if s.drafts == nil {
		return errors.New("report service: no draft repository")
	}
	if _, err := s.drafts.Find(ctx, customerID, day); err != nil {
		return err
	}
	return s.drafts.UpdateStatus(ctx, customerID, day, report.DraftStatusApproved)
}

// Customers returns the configured customer ids.
func (s *ReportService) Customers() []string {
	return s.profiles.List()
}
