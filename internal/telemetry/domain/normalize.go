package telemetry

import (
	"errors"
	"regexp"
	"sort"
	"time"
)

// ErrSourceUnavailable is returned when the telemetry store cannot be reached.
var ErrSourceUnavailable = errors.New("telemetry: source unavailable")

// stringInstantLayout is the only string timestamp representation accepted
// from raw documents.
const stringInstantLayout = "2006-01-02 15:04"

// time.Parse is lenient about digit counts, so the shape is checked first.
var stringInstantPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2} [0-9]{2}:[0-9]{2}$`)

// NormalizeTimestamp classifies a raw timestamp value. Already-typed instants
// are accepted as-is; strings must match the fixed "YYYY-MM-DD HH:MM" pattern
// exactly. Anything else is unclassifiable and the record carrying it must be
// dropped, never defaulted.
func NormalizeTimestamp(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		if !stringInstantPattern.MatchString(v) {
			return time.Time{}, false
		}
		instant, err := time.Parse(stringInstantLayout, v)
		if err != nil {
			return time.Time{}, false
		}
		return instant, true
	default:
		return time.Time{}, false
	}
}

// Normalize converts one raw document into a NormalizedReading. The calendar
// day is the instant formatted in its own location; no timezone conversion is
// applied to the authored data.
func Normalize(doc map[string]any, timestampField string) (NormalizedReading, bool) {
	raw, ok := doc[timestampField]
	if !ok || raw == nil {
		return NormalizedReading{}, false
	}
	instant, ok := NormalizeTimestamp(raw)
	if !ok {
		return NormalizedReading{}, false
	}
	fields := make(map[string]any, len(doc))
	for name, value := range doc {
		if name == timestampField {
			continue
		}
		fields[name] = value
	}
	return NormalizedReading{
		Instant: instant,
		Day:     instant.Format(DayLayout),
		Fields:  fields,
	}, true
}

// Window normalizes raw documents, keeps those whose day falls inside the
// inclusive [startDay, endDay] range, truncates at limit and returns the
// survivors ordered by instant ascending. A limit <= 0 means unbounded.
func Window(docs []map[string]any, timestampField, startDay, endDay string, limit int) []NormalizedReading {
	var readings []NormalizedReading
	for _, doc := range docs {
		reading, ok := Normalize(doc, timestampField)
		if !ok {
			continue
		}
		if !DayInRange(reading.Day, startDay, endDay) {
			continue
		}
		readings = append(readings, reading)
		if limit > 0 && len(readings) >= limit {
			break
		}
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Instant.Before(readings[j].Instant)
	})
	return readings
}

// DayInRange reports whether a canonical day key lies inside the inclusive
// range. Day keys compare lexicographically because the layout is fixed.
func DayInRange(day, startDay, endDay string) bool {
	return day >= startDay && day <= endDay
}
