package report

import (
	customer "solar-dgr/internal/customer/domain"
	telemetry "solar-dgr/internal/telemetry/domain"
)

// GenerationTable is the resolved per-day dataset: one row per day present in
// the source window, columns fixed to the resolved channels. Every resolved
// cell holds a number after construction; missing or non-numeric source
// values become zero so downstream sums are always well-defined.
type GenerationTable struct {
	generation  []string
	irradiation string

	days []string
	rows map[string]row
}

type row struct {
	generation  map[string]float64
	irradiation float64
}

// BuildTable constructs the table from an instant-ordered reading window and
// a schema resolution. When a day carries multiple readings the earliest one
// provides the row; daily generation channels are running day totals, so a
// single row per day is the unit of aggregation. The profile's value scale is
// applied to generation channels only.
func BuildTable(readings []telemetry.NormalizedReading, res customer.Resolution, scale float64) *GenerationTable {
	if scale == 0 {
		scale = 1
	}
	t := &GenerationTable{
		generation:  append([]string(nil), res.Generation...),
		irradiation: res.Irradiation,
		rows:        make(map[string]row),
	}
	for _, reading := range readings {
		if _, seen := t.rows[reading.Day]; seen {
			continue
		}
		r := row{generation: make(map[string]float64, len(t.generation))}
		for _, channel := range t.generation {
			r.generation[channel] = numeric(reading.Fields[channel]) * scale
		}
		if res.HasIrradiation() {
			r.irradiation = numeric(reading.Fields[t.irradiation])
		}
		t.rows[reading.Day] = r
		t.days = append(t.days, reading.Day)
	}
	return t
}

// Channels returns the resolved generation channel names in order.
func (t *GenerationTable) Channels() []string { return t.generation }

// IrradiationChannel returns the resolved irradiation column, or "".
func (t *GenerationTable) IrradiationChannel() string { return t.irradiation }

// Days returns the day keys present in the window, in instant order.
func (t *GenerationTable) Days() []string { return t.days }

// Generation returns the channel value for a day; zero when the day is absent.
func (t *GenerationTable) Generation(day, channel string) float64 {
	return t.rows[day].generation[channel]
}

// Irradiation returns the irradiation value for a day; zero when absent.
func (t *GenerationTable) Irradiation(day string) float64 {
	return t.rows[day].irradiation
}

// numeric coerces the value representations the store hands back. Anything
// else counts as missing.
func numeric(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
