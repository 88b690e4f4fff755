package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	customer "solar-dgr/internal/customer/domain"
)

// Default selection rule for per-inverter telemetry schemas. Profiles that
// declare no rule fall back to this prefix/substring union.
var defaultPrefixUnion = customer.ColumnRule{
	Kind:     customer.RulePrefixUnion,
	Prefixes: []string{"Daily_Generation", "T1_CIS", "T2_INV"},
	Markers:  []string{customer.MeterMarker},
}

type fileConfig struct {
	Customers []profileConfig `yaml:"customers"`
}

type profileConfig struct {
	ID            string     `yaml:"id"`
	Collection    string     `yaml:"collection"`
	RatedCapacity float64    `yaml:"rated_capacity"`
	Inverters     int        `yaml:"inverters"`
	Scale         float64    `yaml:"scale"`
	Rule          ruleConfig `yaml:"rule"`
}

type ruleConfig struct {
	Kind     string   `yaml:"kind"`
	Columns  []string `yaml:"columns"`
	Column   string   `yaml:"column"`
	Prefixes []string `yaml:"prefixes"`
	Markers  []string `yaml:"markers"`
}

// Registry holds customer profiles loaded from a YAML file. Reads are safe
// from concurrent report requests; Reload swaps the whole set atomically.
type Registry struct {
	path string

	mu       sync.RWMutex
	profiles map[string]customer.Profile
	order    []string
}

// NewRegistry loads the profile file and constructs a registry.
func NewRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, errors.New("customer config: empty path")
	}
	r := &Registry{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the profile file. On parse failure the previous profile
// set stays in effect.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("customer config: read %s: %w", r.path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("customer config: parse %s: %w", r.path, err)
	}
	if len(cfg.Customers) == 0 {
		return errors.New("customer config: no customers declared")
	}

	profiles := make(map[string]customer.Profile, len(cfg.Customers))
	order := make([]string, 0, len(cfg.Customers))
	for _, entry := range cfg.Customers {
		profile, err := buildProfile(entry)
		if err != nil {
			return err
		}
		if _, dup := profiles[profile.ID]; dup {
			return fmt.Errorf("customer config: duplicate customer %q", profile.ID)
		}
		profiles[profile.ID] = profile
		order = append(order, profile.ID)
	}

	r.mu.Lock()
	r.profiles = profiles
	r.order = order
	r.mu.Unlock()
	return nil
}

// Get returns the profile for a customer id.
func (r *Registry) Get(id string) (customer.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[id]
	if !ok {
		return customer.Profile{}, customer.ErrProfileNotFound
	}
	return profile, nil
}

// List returns all customer ids in declaration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Path returns the backing file path.
func (r *Registry) Path() string { return r.path }

func buildProfile(entry profileConfig) (customer.Profile, error) {
	if entry.ID == "" {
		return customer.Profile{}, customer.ErrEmptyCustomerID
	}
	collection := entry.Collection
	if collection == "" {
		collection = strings.ToLower(entry.ID) + "_data"
	}
	profile := customer.Profile{
		ID:            entry.ID,
		Collection:    collection,
		RatedCapacity: entry.RatedCapacity,
		InverterCount: entry.Inverters,
		Scale:         entry.Scale,
		Rule:          buildRule(entry.Rule),
	}
	if err := profile.Validate(); err != nil {
		return customer.Profile{}, fmt.Errorf("customer config: %s: %w", entry.ID, err)
	}
	if profile.Rule.Kind == customer.RuleFixedSingleton && profile.Rule.Column == "" {
		return customer.Profile{}, fmt.Errorf("customer config: %s: fixed_singleton requires a column", entry.ID)
	}
	if profile.Rule.Kind == customer.RuleFixedList && len(profile.Rule.Columns) == 0 {
		return customer.Profile{}, fmt.Errorf("customer config: %s: fixed_list requires columns", entry.ID)
	}
	return profile, nil
}

func buildRule(entry ruleConfig) customer.ColumnRule {
	if entry.Kind == "" {
		return defaultPrefixUnion
	}
	rule := customer.ColumnRule{
		Kind:     customer.RuleKind(entry.Kind),
		Column:   entry.Column,
		Columns:  append([]string(nil), entry.Columns...),
		Prefixes: append([]string(nil), entry.Prefixes...),
		Markers:  append([]string(nil), entry.Markers...),
	}
	if rule.Kind == customer.RulePrefixUnion && len(rule.Prefixes) == 0 && len(rule.Markers) == 0 {
		rule.Prefixes = append([]string(nil), defaultPrefixUnion.Prefixes...)
		rule.Markers = append([]string(nil), defaultPrefixUnion.Markers...)
	}
	return rule
}
