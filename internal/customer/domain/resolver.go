package customer

import "strings"

const (
	// MeterMarker identifies meter-level generation channels.
	MeterMarker = "Meter_Generation"
	// IrradiationMarker identifies the irradiation channel.
	IrradiationMarker = "Irradiation"
)

// Resolution is the outcome of schema resolution for one customer dataset.
type Resolution struct {
	Generation  []string
	Irradiation string
}

// HasIrradiation reports whether an irradiation channel was found.
func (r Resolution) HasIrradiation() bool { return r.Irradiation != "" }

// Empty reports whether no generation channels were found. An empty
// resolution aggregates to zero totals downstream; it is not an error.
func (r Resolution) Empty() bool { return len(r.Generation) == 0 }

// Resolve selects the generation channels and the irradiation channel from
// the dataset columns according to the profile's rule variant. Generation
// selection dispatches on the rule tag; irradiation selection is uniform
// across variants: the first column containing the irradiation marker wins.
func Resolve(profile Profile, columns []string) (Resolution, error) {
	if !profile.Rule.Kind.IsValid() {
		return Resolution{}, ErrUnknownRuleKind
	}

	var generation []string
	switch profile.Rule.Kind {
	case RuleFixedList:
		present := make(map[string]struct{}, len(columns))
		for _, column := range columns {
			present[column] = struct{}{}
		}
		for _, column := range profile.Rule.Columns {
			if _, ok := present[column]; ok {
				generation = append(generation, column)
			}
		}
	case RuleMeterSubstring:
		for _, column := range columns {
			if strings.Contains(column, MeterMarker) {
				generation = append(generation, column)
			}
		}
	case RuleFixedSingleton:
		// Selected regardless of presence; the table zero-fills a column
		// the window never carried.
		if profile.Rule.Column != "" {
			generation = append(generation, profile.Rule.Column)
		}
	case RulePrefixUnion:
		for _, column := range columns {
			if matchesPrefixUnion(profile.Rule, column) {
				generation = append(generation, column)
			}
		}
	}

	var irradiation string
	for _, column := range columns {
		if strings.Contains(column, IrradiationMarker) {
			irradiation = column
			break
		}
	}

	return Resolution{Generation: generation, Irradiation: irradiation}, nil
}

func matchesPrefixUnion(rule ColumnRule, column string) bool {
	for _, prefix := range rule.Prefixes {
		if strings.HasPrefix(column, prefix) {
			return true
		}
	}
	for _, marker := range rule.Markers {
		if strings.Contains(column, marker) {
			return true
		}
	}
	return false
}
