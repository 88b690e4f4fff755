package telemetry

import (
	"sort"
	"time"
)

// DayLayout is the canonical calendar-day key format.
const DayLayout = "2006-01-02"

// NormalizedReading is one telemetry document after timestamp normalization.
// Day is always derived from Instant; readings whose timestamp could not be
// classified are dropped before this type is ever constructed.
type NormalizedReading struct {
	Instant time.Time
	Day     string
	Fields  map[string]any
}

// Columns returns the union of field names across readings. Names are ordered
// by first appearance, alphabetically within a single reading, so the result
// is deterministic regardless of map iteration order.
func Columns(readings []NormalizedReading) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, reading := range readings {
		names := make([]string, 0, len(reading.Fields))
		for name := range reading.Fields {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		sort.Strings(names)
		columns = append(columns, names...)
	}
	return columns
}
