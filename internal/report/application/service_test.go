package application

import (
	"context"
	"errors"
	"testing"
	"time"

	customer "solar-dgr/internal/customer/domain"
	report "solar-dgr/internal/report/domain"
	telemetry "solar-dgr/internal/telemetry/domain"
)

type fakeProfiles struct {
	profiles map[string]customer.Profile
}

func (f fakeProfiles) Get(id string) (customer.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return customer.Profile{}, customer.ErrProfileNotFound
	}
	return profile, nil
}

func (f fakeProfiles) List() []string {
	ids := make([]string, 0, len(f.profiles))
	for id := range f.profiles {
		ids = append(ids, id)
	}
	return ids
}

type fakeLoader struct {
	readings []telemetry.NormalizedReading
	err      error

	gotCollection string
	gotStart      time.Time
	gotEnd        time.Time
}

func (f *fakeLoader) Load(_ context.Context, collection string, startDay, endDay time.Time) ([]telemetry.NormalizedReading, error) {
	f.gotCollection = collection
	f.gotStart = startDay
	f.gotEnd = endDay
	return f.readings, f.err
}

type memDrafts struct {
	saved map[string]report.Draft
}

func newMemDrafts() *memDrafts { return &memDrafts{saved: make(map[string]report.Draft)} }

func (m *memDrafts) key(customerID, day string) string { return customerID + "|" + day }

func (m *memDrafts) Save(_ context.Context, draft report.Draft) error {
	m.saved[m.key(draft.CustomerID, draft.Day)] = draft
	return nil
}

func (m *memDrafts) Find(_ context.Context, customerID, day string) (*report.Draft, error) {
	draft, ok := m.saved[m.key(customerID, day)]
	if !ok {
		return nil, report.ErrDraftNotFound
	}
	return &draft, nil
}

func (m *memDrafts) List(_ context.Context) ([]report.Draft, error) {
	var out []report.Draft
	for _, draft := range m.saved {
		out = append(out, draft)
	}
	return out, nil
}

func (m *memDrafts) UpdateStatus(_ context.Context, customerID, day, status string) error {
	draft, ok := m.saved[m.key(customerID, day)]
	if !ok {
		return report.ErrDraftNotFound
	}
	draft.Status = status
	m.saved[m.key(customerID, day)] = draft
	return nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func testReading(t *testing.T, stamp string, fields map[string]any) telemetry.NormalizedReading {
	t.Helper()
	instant, err := time.Parse("2006-01-02 15:04", stamp)
	if err != nil {
		t.Fatalf("parse %q: %v", stamp, err)
	}
	return telemetry.NormalizedReading{Instant: instant, Day: instant.Format(telemetry.DayLayout), Fields: fields}
}

func testProfile() customer.Profile {
	return customer.Profile{
		ID:            "Imagica",
		Collection:    "opcua_data",
		RatedCapacity: 3.06,
		InverterCount: 18,
		Rule: customer.ColumnRule{
			Kind:     customer.RulePrefixUnion,
			Prefixes: []string{"Daily_Generation"},
		},
	}
}

func newService(t *testing.T, loader *fakeLoader, drafts report.DraftRepository) *ReportService {
	t.Helper()
	svc, err := NewReportService(
		fakeProfiles{profiles: map[string]customer.Profile{"Imagica": testProfile()}},
		loader,
		drafts,
		fixedClock{at: time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestBuild_FullPipeline(t *testing.T) {
	loader := &fakeLoader{readings: []telemetry.NormalizedReading{
		testReading(t, "2024-03-04 06:00", map[string]any{"Daily_Generation_INV1": 100.0, "Plant_Irradiation": 5.0}),
		testReading(t, "2024-03-05 06:00", map[string]any{"Daily_Generation_INV1": 250.0, "Plant_Irradiation": 6.0}),
	}}
	svc := newService(t, loader, newMemDrafts())

	doc, err := svc.Build(context.Background(), "Imagica", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.DataDay != "2024-03-05" {
		t.Fatalf("expected data day 2024-03-05, got %s", doc.DataDay)
	}
	if loader.gotCollection != "opcua_data" {
		t.Fatalf("expected collection from profile, got %q", loader.gotCollection)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !loader.gotStart.Equal(want) {
		t.Fatalf("expected YTD window start %v, got %v", want, loader.gotStart)
	}
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC); !loader.gotEnd.Equal(want) {
		t.Fatalf("expected window end %v, got %v", want, loader.gotEnd)
	}
	if doc.KPI.TotalDaily != 250.0 {
		t.Fatalf("expected total daily 250, got %v", doc.KPI.TotalDaily)
	}
	if doc.KPI.TotalMTD != 350.0 {
		t.Fatalf("expected total MTD 350, got %v", doc.KPI.TotalMTD)
	}
	if len(doc.Rows) != 1 || doc.Rows[0].Name != "Inverter-1" {
		t.Fatalf("unexpected rows: %+v", doc.Rows)
	}
}

func TestBuild_SourceUnavailablePropagates(t *testing.T) {
	loader := &fakeLoader{err: telemetry.ErrSourceUnavailable}
	svc := newService(t, loader, newMemDrafts())
	_, err := svc.Build(context.Background(), "Imagica", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, telemetry.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestBuild_UnknownCustomer(t *testing.T) {
	svc := newService(t, &fakeLoader{}, newMemDrafts())
	_, err := svc.Build(context.Background(), "nobody", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, customer.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestBuild_EmptyResolutionYieldsZeroDocument(t *testing.T) {
	loader := &fakeLoader{readings: []telemetry.NormalizedReading{
		testReading(t, "2024-03-05 06:00", map[string]any{"Wind_Speed": 4.2}),
	}}
	svc := newService(t, loader, newMemDrafts())
	doc, err := svc.Build(context.Background(), "Imagica", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected zero-total document, got error %v", err)
	}
	if doc.KPI.TotalDaily != 0 || len(doc.Rows) != 0 {
		t.Fatalf("expected empty aggregate, got %+v", doc.KPI)
	}
}

func TestSaveDraft_IdempotentKey(t *testing.T) {
	loader := &fakeLoader{readings: []telemetry.NormalizedReading{
		testReading(t, "2024-03-05 06:00", map[string]any{"Daily_Generation_INV1": 250.0}),
	}}
	drafts := newMemDrafts()
	svc := newService(t, loader, drafts)

	doc, err := svc.Build(context.Background(), "Imagica", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := svc.SaveDraft(context.Background(), doc, "exports/a.xlsx"); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if _, err := svc.SaveDraft(context.Background(), doc, "exports/b.xlsx"); err != nil {
		t.Fatalf("save draft again: %v", err)
	}
	if len(drafts.saved) != 1 {
		t.Fatalf("expected one draft per (customer, day), got %d", len(drafts.saved))
	}
	draft, err := svc.FindDraft(context.Background(), "Imagica", "2024-03-05")
	if err != nil {
		t.Fatalf("find draft: %v", err)
	}
	if draft.FilePath != "exports/b.xlsx" {
		t.Fatalf("expected latest save to win, got %q", draft.FilePath)
	}
	if draft.Status != report.DraftStatusDraft {
		t.Fatalf("expected draft status, got %q", draft.Status)
	}
}

func TestApprove(t *testing.T) {
	loader := &fakeLoader{readings: []telemetry.NormalizedReading{
		testReading(t, "2024-03-05 06:00", map[string]any{"Daily_Generation_INV1": 250.0}),
	}}
	drafts := newMemDrafts()
	svc := newService(t, loader, drafts)

	doc, err := svc.Build(context.Background(), "Imagica", time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := svc.SaveDraft(context.Background(), doc, "exports/a.xlsx"); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	if err := svc.Approve(context.Background(), "Imagica", "2024-03-05"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	draft, err := svc.FindDraft(context.Background(), "Imagica", "2024-03-05")
	if err != nil {
		t.Fatalf("find draft: %v", err)
	}
	if draft.Status != report.DraftStatusApproved {
		t.Fatalf("expected approved, got %q", draft.Status)
	}

	if err := svc.Approve(context.Background(), "Imagica", "1999-01-01"); !errors.Is(err, report.ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound, got %v", err)
	}
}
