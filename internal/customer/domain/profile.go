package customer

import "errors"

var (
	// ErrEmptyCustomerID is returned when a profile has no id.
	ErrEmptyCustomerID = errors.New("customer: empty customer id")
	// ErrUnknownRuleKind is returned for a rule kind outside the closed set.
	ErrUnknownRuleKind = errors.New("customer: unknown column rule kind")
	// ErrProfileNotFound is returned when no profile exists for a customer.
	ErrProfileNotFound = errors.New("customer: profile not found")
)

// RuleKind tags a column selection strategy. The set is closed; adding a
// customer means adding a profile entry, never a new code path.
type RuleKind string

const (
	// RuleFixedList selects a predeclared list of channel names if present.
	RuleFixedList RuleKind = "fixed_list"
	// RuleMeterSubstring selects columns containing the meter marker.
	RuleMeterSubstring RuleKind = "meter_substring"
	// RuleFixedSingleton selects one specific total-generation column.
	RuleFixedSingleton RuleKind = "fixed_singleton"
	// RulePrefixUnion selects columns matching declared prefixes or markers.
	RulePrefixUnion RuleKind = "prefix_union"
)

// IsValid reports whether the kind belongs to the closed set.
func (k RuleKind) IsValid() bool {
	switch k {
	case RuleFixedList, RuleMeterSubstring, RuleFixedSingleton, RulePrefixUnion:
		return true
	default:
		return false
	}
}

// ColumnRule is the tagged column selection variant carried by a profile.
// Only the fields matching Kind are consulted.
type ColumnRule struct {
	Kind     RuleKind
	Columns  []string // fixed_list
	Column   string   // fixed_singleton
	Prefixes []string // prefix_union
	Markers  []string // prefix_union
}

// Profile is the static per-customer configuration. Immutable within a
// request; loaded once from configuration, never persisted by this core.
type Profile struct {
	ID            string
	Collection    string
	RatedCapacity float64
	InverterCount int
	Scale         float64
	Rule          ColumnRule
}

// Validate checks profile invariants.
func (p Profile) Validate() error {
	if p.ID == "" {
		return ErrEmptyCustomerID
	}
	if !p.Rule.Kind.IsValid() {
		return ErrUnknownRuleKind
	}
	return nil
}

// ValueScale returns the multiplier applied to generation channel values.
func (p Profile) ValueScale() float64 {
	if p.Scale == 0 {
		return 1
	}
	return p.Scale
}
