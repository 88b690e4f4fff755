package config

import (
	"os"
	"path/filepath"
	"testing"

	customer "solar-dgr/internal/customer/domain"
)

const sampleConfig = `
customers:
  - id: Imagica
    collection: opcua_data
    rated_capacity: 3.06
    inverters: 18
  - id: PGCIL
    rated_capacity: 26.56
    inverters: 32
    scale: 1000
    rule:
      kind: fixed_singleton
      column: Total_Daily_Generation
  - id: BEL1
    rated_capacity: 10.0
    inverters: 1
    rule:
      kind: meter_substring
  - id: TMD
    rated_capacity: 10
    inverters: 9
    rule:
      kind: fixed_list
      columns:
        - T1_CIS01_INV1_1_GenPowerToday
        - T2_INV1_GenPowerToday
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewRegistry_LoadsProfiles(t *testing.T) {
	reg, err := NewRegistry(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	ids := reg.List()
	if len(ids) != 4 {
		t.Fatalf("expected 4 customers, got %d", len(ids))
	}
	if ids[0] != "Imagica" {
		t.Fatalf("expected declaration order preserved, got %v", ids)
	}

	imagica, err := reg.Get("Imagica")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if imagica.Collection != "opcua_data" {
		t.Fatalf("expected explicit collection, got %q", imagica.Collection)
	}
	if imagica.Rule.Kind != customer.RulePrefixUnion {
		t.Fatalf("expected default prefix union rule, got %q", imagica.Rule.Kind)
	}
	if imagica.ValueScale() != 1 {
		t.Fatalf("expected default scale 1, got %v", imagica.ValueScale())
	}

	pgcil, err := reg.Get("PGCIL")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pgcil.Rule.Kind != customer.RuleFixedSingleton || pgcil.Rule.Column != "Total_Daily_Generation" {
		t.Fatalf("unexpected singleton rule: %+v", pgcil.Rule)
	}
	if pgcil.Scale != 1000 {
		t.Fatalf("expected scale 1000, got %v", pgcil.Scale)
	}
	if pgcil.Collection != "pgcil_data" {
		t.Fatalf("expected derived collection pgcil_data, got %q", pgcil.Collection)
	}
}

func TestRegistry_UnknownCustomer(t *testing.T) {
	reg, err := NewRegistry(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := reg.Get("nobody"); err != customer.ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestRegistry_RejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"empty":             "customers: []",
		"missing id":        "customers:\n  - rated_capacity: 1\n",
		"bad kind":          "customers:\n  - id: X\n    rule:\n      kind: nonsense\n",
		"singleton no col":  "customers:\n  - id: X\n    rule:\n      kind: fixed_singleton\n",
		"fixed list no col": "customers:\n  - id: X\n    rule:\n      kind: fixed_list\n",
		"duplicate":         "customers:\n  - id: X\n  - id: X\n",
	}
	for name, content := range cases {
		if _, err := NewRegistry(writeConfig(t, content)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRegistry_ReloadSwapsProfiles(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	reg, err := NewRegistry(path)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	updated := "customers:\n  - id: Caspro\n    inverters: 11\n    rated_capacity: 3.05\n"
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := reg.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, err := reg.Get("Imagica"); err == nil {
		t.Fatalf("expected old profiles to be replaced")
	}
	if _, err := reg.Get("Caspro"); err != nil {
		t.Fatalf("expected new profile present, got %v", err)
	}
}

func TestRegistry_ReloadKeepsOldSetOnParseFailure(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	reg, err := NewRegistry(path)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := os.WriteFile(path, []byte(":\tbroken yaml ["), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := reg.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if _, err := reg.Get("Imagica"); err != nil {
		t.Fatalf("expected previous profiles retained, got %v", err)
	}
}
