package customer

import (
	"errors"
	"testing"
)

func prefixUnionProfile() Profile {
	return Profile{
		ID: "plant-a",
		Rule: ColumnRule{
			Kind:     RulePrefixUnion,
			Prefixes: []string{"Daily_Generation", "T1_CIS", "T2_INV"},
			Markers:  []string{MeterMarker},
		},
	}
}

func TestResolve_PrefixUnion(t *testing.T) {
	profile := Profile{
		ID: "plant-a",
		Rule: ColumnRule{
			Kind:     RulePrefixUnion,
			Prefixes: []string{"Daily_Generation"},
		},
	}
	columns := []string{"Daily_Generation_INV1", "Meter_Generation_X", "Irradiation_1"}
	res, err := Resolve(profile, columns)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Generation) != 1 || res.Generation[0] != "Daily_Generation_INV1" {
		t.Fatalf("expected [Daily_Generation_INV1], got %v", res.Generation)
	}
	if res.Irradiation != "Irradiation_1" {
		t.Fatalf("expected Irradiation_1, got %q", res.Irradiation)
	}
}

func TestResolve_PrefixUnionWithMeterMarker(t *testing.T) {
	columns := []string{"Daily_Generation_INV1", "Sub_Meter_Generation", "Wind_Speed"}
	res, err := Resolve(prefixUnionProfile(), columns)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Generation) != 2 {
		t.Fatalf("expected 2 channels, got %v", res.Generation)
	}
}

func TestResolve_FixedList_KeepsDeclaredOrderAndPresence(t *testing.T) {
	profile := Profile{
		ID: "plant-b",
		Rule: ColumnRule{
			Kind:    RuleFixedList,
			Columns: []string{"T2_INV1_GenPowerToday", "T1_CIS01_INV1_1_GenPowerToday", "Absent_Column"},
		},
	}
	columns := []string{"T1_CIS01_INV1_1_GenPowerToday", "T2_INV1_GenPowerToday"}
	res, err := Resolve(profile, columns)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{"T2_INV1_GenPowerToday", "T1_CIS01_INV1_1_GenPowerToday"}
	if len(res.Generation) != len(want) {
		t.Fatalf("expected %v, got %v", want, res.Generation)
	}
	for i := range want {
		if res.Generation[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, res.Generation)
		}
	}
}

func TestResolve_MeterSubstring(t *testing.T) {
	profile := Profile{ID: "plant-c", Rule: ColumnRule{Kind: RuleMeterSubstring}}
	columns := []string{"Plant_Meter_Generation", "Daily_Generation_INV1"}
	res, err := Resolve(profile, columns)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Generation) != 1 || res.Generation[0] != "Plant_Meter_Generation" {
		t.Fatalf("expected [Plant_Meter_Generation], got %v", res.Generation)
	}
}

func TestResolve_FixedSingleton_SelectedEvenWhenAbsent(t *testing.T) {
	profile := Profile{
		ID:   "plant-d",
		Rule: ColumnRule{Kind: RuleFixedSingleton, Column: "Total_Daily_Generation"},
	}
	res, err := Resolve(profile, []string{"Something_Else"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(res.Generation) != 1 || res.Generation[0] != "Total_Daily_Generation" {
		t.Fatalf("expected [Total_Daily_Generation], got %v", res.Generation)
	}
}

func TestResolve_IrradiationFirstMatchWins(t *testing.T) {
	columns := []string{"Irradiation_A", "Irradiation_B", "Daily_Generation_INV1"}
	res, err := Resolve(prefixUnionProfile(), columns)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Irradiation != "Irradiation_A" {
		t.Fatalf("expected first irradiation column to win, got %q", res.Irradiation)
	}
}

func TestResolve_EmptyResolutionIsNotAnError(t *testing.T) {
	res, err := Resolve(prefixUnionProfile(), []string{"Wind_Speed", "Ambient_Temp"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Empty() {
		t.Fatalf("expected empty resolution, got %v", res.Generation)
	}
}

func TestResolve_UnknownKind(t *testing.T) {
	profile := Profile{ID: "x", Rule: ColumnRule{Kind: RuleKind("bogus")}}
	if _, err := Resolve(profile, nil); !errors.Is(err, ErrUnknownRuleKind) {
		t.Fatalf("expected ErrUnknownRuleKind, got %v", err)
	}
}
