package report

import (
	"fmt"
	"time"

	customer "solar-dgr/internal/customer/domain"
	telemetry "solar-dgr/internal/telemetry/domain"
)

// AggregationResult carries per-channel Daily / MTD / YTD generation sums for
// one report request. Derived, recomputed on every call, never mutated.
type AggregationResult struct {
	DataDay       string
	Channels      []string
	InverterNames []string

	Daily   map[string]float64
	Monthly map[string]float64
	Yearly  map[string]float64

	DailyIrradiation      *float64
	MonthlyAvgIrradiation *float64
}

// Aggregate computes strict calendar-windowed sums over the table.
//
// Daily is the row at dataDay, zeros when the day is absent; a missing day is
// valid, e.g. a report run before ingestion completed. MTD sums the gap-filled
// sequence [monthStart, dataDay] where absent days contribute zero. YTD
// applies the same per-day zero policy over [yearStart, dataDay].
func Aggregate(table *GenerationTable, profile customer.Profile, reportDate time.Time) AggregationResult {
	dataDay := DataDay(reportDate)
	dayKey := dataDay.Format(telemetry.DayLayout)
	monthDays := DaySpan(MonthStart(dataDay), dataDay)
	yearStartKey := YearStart(dataDay).Format(telemetry.DayLayout)

	channels := table.Channels()
	result := AggregationResult{
		DataDay:       dayKey,
		Channels:      append([]string(nil), channels...),
		InverterNames: inverterNames(profile, channels),
		Daily:         make(map[string]float64, len(channels)),
		Monthly:       make(map[string]float64, len(channels)),
		Yearly:        make(map[string]float64, len(channels)),
	}

	for _, channel := range channels {
		result.Daily[channel] = table.Generation(dayKey, channel)

		var mtd float64
		for _, day := range monthDays {
			mtd += table.Generation(day, channel)
		}
		result.Monthly[channel] = mtd

		var ytd float64
		for _, day := range table.Days() {
			if telemetry.DayInRange(day, yearStartKey, dayKey) {
				ytd += table.Generation(day, channel)
			}
		}
		result.Yearly[channel] = ytd
	}

	if table.IrradiationChannel() != "" {
		daily := table.Irradiation(dayKey)
		result.DailyIrradiation = &daily

		// Mean over the full gap-filled month window; absent days count
		// as zero in the numerator, not out of the denominator.
		var sum float64
		for _, day := range monthDays {
			sum += table.Irradiation(day)
		}
		if len(monthDays) > 0 {
			avg := sum / float64(len(monthDays))
			result.MonthlyAvgIrradiation = &avg
		}
	}

	return result
}

// inverterNames maps resolved channels onto report display names. Plants
// metered at a single point render as one total-meter channel; per-inverter
// plants render as a numbered sequence aligned with channel order.
func inverterNames(profile customer.Profile, channels []string) []string {
	single := profile.Rule.Kind == customer.RuleFixedSingleton ||
		(profile.Rule.Kind == customer.RuleMeterSubstring && len(channels) == 1)
	if single && len(channels) == 1 {
		return []string{"Total_Meter_Generation"}
	}
	names := make([]string, len(channels))
	for i := range channels {
		names[i] = fmt.Sprintf("Inverter-%d", i+1)
	}
	return names
}
