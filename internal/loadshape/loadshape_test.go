package loadshape

import (
	"errors"
	"strings"
	"testing"
)

func TestObjectURL(t *testing.T) {
	base := "https://example.com/by_state"
	c := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 3}
	want := "https://example.com/by_state/upgrade%3D3/state%3DCO/up03-co-mobile_home.csv"
	if got := ObjectURL(base, c); got != want {
		t.Errorf("ObjectURL = %q, want %q", got, want)
	}
}

func TestObjectURLMultiFamily(t *testing.T) {
	c := Combination{State: "NY", BuildingType: "Multi-Family with 5+ Units", Upgrade: 0}
	got := ObjectURL(DefaultBaseURL, c)
	if !strings.HasSuffix(got, "/upgrade%3D0/state%3DNY/up00-ny-multi-family_with_5plus_units.csv") {
		t.Errorf("unexpected URL %q", got)
	}
}

func TestBuildingTypesMatchFiles(t *testing.T) {
	types := BuildingTypes()
	if len(types) != len(BuildingTypeFiles) {
		t.Fatalf("BuildingTypes has %d entries, BuildingTypeFiles has %d", len(types), len(BuildingTypeFiles))
	}
	for _, bt := range types {
		if _, ok := BuildingTypeFiles[bt]; !ok {
			t.Errorf("building type %q has no file fragment", bt)
		}
	}
}

func TestCombinationString(t *testing.T) {
	c := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 7}
	if got := c.String(); got != "CO/Mobile Home/upgrade=7" {
		t.Errorf("String() = %q", got)
	}
}

func TestSkipReportSummary(t *testing.T) {
	var empty SkipReport
	if got := empty.Summary(); got != "no combinations skipped" {
		t.Errorf("empty Summary() = %q", got)
	}

	report := SkipReport{
		{Combination: Combination{State: "CO", BuildingType: "Mobile Home"}, Err: errors.New("status 404")},
		{Combination: Combination{State: "NY", BuildingType: "Mobile Home", Upgrade: 2}, Err: errors.New("timeout")},
	}
	got := report.Summary()
	if !strings.Contains(got, "2 combination(s) skipped") {
		t.Errorf("Summary() missing count: %q", got)
	}
	if !strings.Contains(got, "CO/Mobile Home/upgrade=0: status 404") {
		t.Errorf("Summary() missing detail: %q", got)
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := &FetchError{Combination: Combination{State: "CO"}, Err: inner}
	if !errors.Is(e, inner) {
		t.Error("FetchError should unwrap to the inner error")
	}
}
