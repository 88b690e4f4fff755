package report

import (
	"time"

	telemetry "solar-dgr/internal/telemetry/domain"
)

// DataDay returns the telemetry day a report covers: always the calendar day
// before the report's nominal date. Fixed policy, not configurable.
func DataDay(reportDate time.Time) time.Time {
	return truncateToDay(reportDate).AddDate(0, 0, -1)
}

// MonthStart returns the first day of the day's month.
func MonthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}

// YearStart returns January 1 of the day's year.
func YearStart(day time.Time) time.Time {
	return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
}

// DaySpan returns every calendar day key in the inclusive [start, end] range.
// Month and year sums iterate this span so absent days contribute zero.
func DaySpan(start, end time.Time) []string {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return nil
	}
	var days []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(telemetry.DayLayout))
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
