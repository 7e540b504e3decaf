package aggregate

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/openenergy-data/resstock.report/internal/resstock"
)

func record(county, countyName, state, buildingType string, weight, kwh float64) resstock.BuildingRecord {
	return resstock.BuildingRecord{
		County:          county,
		CountyName:      countyName,
		State:           state,
		BuildingType:    buildingType,
		Vintage:         "1980s",
		HeatingFuel:     "Natural Gas",
		WaterHeaterFuel: "Natural Gas",
		FloorArea:       math.NaN(),
		Weight:          weight,
		ElectricityKWh:  kwh,
		ElectricBillUSD: math.NaN(),
		EnergyBurdenPct: math.NaN(),
	}
}

func allColumns() []string {
	return []string{
		resstock.ColCounty,
		resstock.ColCountyName,
		resstock.ColState,
		resstock.ColBuildingType,
		resstock.ColVintage,
		resstock.ColHeatingFuel,
		resstock.ColWaterHeaterFuel,
		resstock.ColFloorArea,
		resstock.ColWeight,
		resstock.ColElectricityKWh,
		resstock.ColElectricBill,
		resstock.ColEnergyBurden,
	}
}

func TestBuildCountySummaries(t *testing.T) {
	ds := resstock.NewDataset([]resstock.BuildingRecord{
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 1.0, 10),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 2.0, 20),
	}, allColumns())

	summaries, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountySummaries failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.BuildingCount != 2 {
		t.Errorf("BuildingCount = %d, want 2", s.BuildingCount)
	}
	if s.WeightedCount != 3.0 {
		t.Errorf("WeightedCount = %v, want 3.0", s.WeightedCount)
	}
	if s.AvgElectricityKWh == nil || *s.AvgElectricityKWh != 15.0 {
		t.Errorf("AvgElectricityKWh = %v, want 15.0", s.AvgElectricityKWh)
	}
	if s.FIPS != "0500000US08069" {
		t.Errorf("FIPS = %q, want 0500000US08069", s.FIPS)
	}
	if s.AvgFloorArea != nil {
		t.Errorf("AvgFloorArea = %v, want nil (no valid samples)", *s.AvgFloorArea)
	}
	if s.AvgVintage == nil || *s.AvgVintage != 1980 {
		t.Errorf("AvgVintage = %v, want 1980", s.AvgVintage)
	}
	if s.HeatingFuelDist != "Natural Gas:2" {
		t.Errorf("HeatingFuelDist = %q", s.HeatingFuelDist)
	}
}

// The most common building type breaks frequency ties deterministically and
// weighting never changes the count-based distributions.
func TestBuildCountySummariesMode(t *testing.T) {
	ds := resstock.NewDataset([]resstock.BuildingRecord{
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 100.0, 10),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 1.0, 10),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 1.0, 10),
	}, allColumns())

	summaries, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountySummaries failed: %v", err)
	}
	if got := summaries[0].MostCommonType; got != "Mobile Home" {
		t.Errorf("MostCommonType = %q, want Mobile Home (counts, not weights)", got)
	}
}

func TestBuildCountySummariesMissingWeight(t *testing.T) {
	r := record("G0800690", "Larimer County", "CO", "Single-Family Detached", math.NaN(), 10)
	ds := resstock.NewDataset([]resstock.BuildingRecord{r, r}, allColumns())

	summaries, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountySummaries failed: %v", err)
	}
	if summaries[0].WeightedCount != 2.0 {
		t.Errorf("WeightedCount = %v, want 2.0 (unit weight fallback)", summaries[0].WeightedCount)
	}
}

func TestBuildCountySummariesSorted(t *testing.T) {
	ds := resstock.NewDataset([]resstock.BuildingRecord{
		record("G3600610", "New York County", "NY", "Multi-Family with 5+ Units", 1, 1),
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 1, 1),
	}, allColumns())

	summaries, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountySummaries failed: %v", err)
	}
	got := []string{summaries[0].County, summaries[1].County}
	want := []string{"G0800690", "G3600610"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("county order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCountySummariesErrors(t *testing.T) {
	var dataErr *DataError

	_, err := BuildCountySummaries(nil)
	if !errors.As(err, &dataErr) {
		t.Errorf("nil dataset: expected DataError, got %v", err)
	}

	_, err = BuildCountySummaries(resstock.NewDataset(nil, allColumns()))
	if !errors.As(err, &dataErr) {
		t.Errorf("empty dataset: expected DataError, got %v", err)
	}

	ds := resstock.NewDataset(
		[]resstock.BuildingRecord{record("G0800690", "Larimer County", "CO", "Mobile Home", 1, 1)},
		[]string{resstock.ColState},
	)
	_, err = BuildCountySummaries(ds)
	if !errors.As(err, &dataErr) {
		t.Fatalf("missing county column: expected DataError, got %v", err)
	}
	if dataErr.Column != resstock.ColCounty {
		t.Errorf("DataError.Column = %q, want %q", dataErr.Column, resstock.ColCounty)
	}

	bad := record("BAD", "Nowhere", "XX", "Mobile Home", 1, 1)
	_, err = BuildCountySummaries(resstock.NewDataset([]resstock.BuildingRecord{bad}, allColumns()))
	if !errors.As(err, &dataErr) {
		t.Errorf("malformed county id: expected DataError, got %v", err)
	}
}

func TestBuildCountyBuildingSummaries(t *testing.T) {
	ds := resstock.NewDataset([]resstock.BuildingRecord{
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 1.0, 10),
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 1.0, 30),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 2.0, 20),
	}, allColumns())

	summaries, err := BuildCountyBuildingSummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountyBuildingSummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	// Sorted by county then building type.
	if summaries[0].BuildingType != "Mobile Home" || summaries[1].BuildingType != "Single-Family Detached" {
		t.Fatalf("unexpected order: %q, %q", summaries[0].BuildingType, summaries[1].BuildingType)
	}
	sf := summaries[1]
	if sf.BuildingCount != 2 || sf.WeightedCount != 2.0 {
		t.Errorf("Single-Family: count=%d weighted=%v, want 2 and 2.0", sf.BuildingCount, sf.WeightedCount)
	}
	if sf.AvgElectricityKWh == nil || *sf.AvgElectricityKWh != 20.0 {
		t.Errorf("Single-Family AvgElectricityKWh = %v, want 20.0", sf.AvgElectricityKWh)
	}
}

// Group sums across building types must equal the county totals.
func TestCountyBuildingSummariesPartitionCounty(t *testing.T) {
	ds := resstock.NewDataset([]resstock.BuildingRecord{
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 1.5, 10),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 2.5, 20),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 3.0, 30),
	}, allColumns())

	counties, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountySummaries failed: %v", err)
	}
	byType, err := BuildCountyBuildingSummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountyBuildingSummaries failed: %v", err)
	}

	var count int
	var weighted float64
	for _, s := range byType {
		count += s.BuildingCount
		weighted += s.WeightedCount
	}
	if count != counties[0].BuildingCount {
		t.Errorf("building counts: sum of groups %d != county %d", count, counties[0].BuildingCount)
	}
	if math.Abs(weighted-counties[0].WeightedCount) > 1e-9 {
		t.Errorf("weighted counts: sum of groups %v != county %v", weighted, counties[0].WeightedCount)
	}
}

func TestBuildCountyBuildingSummariesMissingTypeColumn(t *testing.T) {
	ds := resstock.NewDataset(
		[]resstock.BuildingRecord{record("G0800690", "Larimer County", "CO", "", 1, 1)},
		[]string{resstock.ColCounty, resstock.ColState},
	)
	var dataErr *DataError
	_, err := BuildCountyBuildingSummaries(ds)
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
	if dataErr.Column != resstock.ColBuildingType {
		t.Errorf("DataError.Column = %q, want %q", dataErr.Column, resstock.ColBuildingType)
	}
}

// Unknown categories are kept as their own bucket rather than dropped.
func TestUnknownCategoryRetained(t *testing.T) {
	r := record("G0800690", "Larimer County", "CO", resstock.UnknownCategory, 1, 10)
	r.HeatingFuel = resstock.UnknownCategory
	ds := resstock.NewDataset([]resstock.BuildingRecord{r}, allColumns())

	summaries, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("BuildCountySummaries failed: %v", err)
	}
	if summaries[0].BuildingCount != 1 {
		t.Fatalf("record with unknown categories was dropped")
	}
	if summaries[0].MostCommonHeating != resstock.UnknownCategory {
		t.Errorf("MostCommonHeating = %q, want %q", summaries[0].MostCommonHeating, resstock.UnknownCategory)
	}
}

// Re-running the reduction over the same dataset yields identical output.
func TestBuildCountySummariesDeterministic(t *testing.T) {
	ds := resstock.NewDataset([]resstock.BuildingRecord{
		record("G0800690", "Larimer County", "CO", "Single-Family Detached", 1.0, 10),
		record("G3600610", "New York County", "NY", "Mobile Home", 2.0, 20),
		record("G0800690", "Larimer County", "CO", "Mobile Home", 3.0, 30),
	}, allColumns())

	first, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := BuildCountySummaries(ds)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}
