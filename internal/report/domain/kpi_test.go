package report

import (
	"testing"

	customer "solar-dgr/internal/customer/domain"
)

func sampleAggregation() AggregationResult {
	return AggregationResult{
		Channels: []string{"a", "b"},
		Daily:    map[string]float64{"a": 100, "b": 50},
		Monthly:  map[string]float64{"a": 1000, "b": 500},
		Yearly:   map[string]float64{"a": 9000, "b": 4500},
	}
}

func TestComputeKPI_Totals(t *testing.T) {
	profile := customer.Profile{ID: "x", RatedCapacity: 3.0, InverterCount: 10}
	kpi := ComputeKPI(profile, sampleAggregation())
	if kpi.TotalDaily != 150 {
		t.Fatalf("expected total daily 150, got %v", kpi.TotalDaily)
	}
	if kpi.TotalMTD != 1500 {
		t.Fatalf("expected total MTD 1500, got %v", kpi.TotalMTD)
	}
	if kpi.TotalYTD != 13500 {
		t.Fatalf("expected total YTD 13500, got %v", kpi.TotalYTD)
	}
	want := 150.0 / (24 * 3.0 * 10)
	if kpi.PLFPercent != want {
		t.Fatalf("expected PLF %v, got %v", want, kpi.PLFPercent)
	}
}

func TestComputeKPI_DivisionGuard(t *testing.T) {
	// Zero inverter count: denominator falls back to 1, so PLF equals the
	// daily total exactly and nothing blows up.
	profile := customer.Profile{ID: "x", RatedCapacity: 3.0, InverterCount: 0}
	kpi := ComputeKPI(profile, sampleAggregation())
	if kpi.PLFPercent != kpi.TotalDaily {
		t.Fatalf("expected PLF == total daily with guard denominator, got %v", kpi.PLFPercent)
	}

	profile = customer.Profile{ID: "x", RatedCapacity: 0, InverterCount: 5}
	kpi = ComputeKPI(profile, sampleAggregation())
	if kpi.PLFPercent != kpi.TotalDaily {
		t.Fatalf("expected guard for zero rated capacity, got %v", kpi.PLFPercent)
	}
}

func TestComputeKPI_EmptyAggregate(t *testing.T) {
	profile := customer.Profile{ID: "x", RatedCapacity: 3.0, InverterCount: 10}
	kpi := ComputeKPI(profile, AggregationResult{})
	if kpi.TotalDaily != 0 || kpi.TotalMTD != 0 || kpi.TotalYTD != 0 || kpi.PLFPercent != 0 {
		t.Fatalf("expected zero KPI for empty aggregate, got %+v", kpi)
	}
}

func TestBuildRows_JoinsWindowsByChannel(t *testing.T) {
	agg := sampleAggregation()
	agg.InverterNames = []string{"Inverter-1", "Inverter-2"}
	rows := BuildRows(agg)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Inverter-1" || rows[0].DailyKWh != 100 || rows[0].MonthlyKWh != 1000 || rows[0].YearlyKWh != 9000 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
}
