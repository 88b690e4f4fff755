package report

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDataDay_AlwaysOneDayInArrears(t *testing.T) {
	cases := []struct {
		report time.Time
		want   time.Time
	}{
		{day(2024, time.March, 15), day(2024, time.March, 14)},
		{day(2024, time.March, 1), day(2024, time.February, 29)},
		{day(2023, time.March, 1), day(2023, time.February, 28)},
		{day(2024, time.January, 1), day(2023, time.December, 31)},
	}
	for _, tc := range cases {
		if got := DataDay(tc.report); !got.Equal(tc.want) {
			t.Fatalf("DataDay(%v): expected %v, got %v", tc.report, tc.want, got)
		}
	}
}

func TestWindowStarts_AcrossYearBoundary(t *testing.T) {
	dataDay := DataDay(day(2024, time.January, 1))
	if got := MonthStart(dataDay); !got.Equal(day(2023, time.December, 1)) {
		t.Fatalf("expected month start 2023-12-01, got %v", got)
	}
	if got := YearStart(dataDay); !got.Equal(day(2023, time.January, 1)) {
		t.Fatalf("expected ytd start 2023-01-01, got %v", got)
	}
}

func TestDaySpan_InclusiveBothEnds(t *testing.T) {
	days := DaySpan(day(2024, time.February, 27), day(2024, time.March, 2))
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, days)
		}
	}
}

func TestDaySpan_SingleDayAndEmpty(t *testing.T) {
	if days := DaySpan(day(2024, time.March, 1), day(2024, time.March, 1)); len(days) != 1 {
		t.Fatalf("expected single-day span, got %v", days)
	}
	if days := DaySpan(day(2024, time.March, 2), day(2024, time.March, 1)); days != nil {
		t.Fatalf("expected nil for inverted span, got %v", days)
	}
}
