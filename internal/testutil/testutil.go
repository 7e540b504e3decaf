// Package testutil provides shared fixtures for the store and aggregation
// tests: a migrated temp database, a small building dataset, and a
// synthetic timeseries CSV body.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/openenergy-data/resstock.report/internal/db"
	"github.com/openenergy-data/resstock.report/internal/resstock"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// TempDB opens a fresh store in the test's temp dir and applies every
// migration from migrationsDir. The store is closed on cleanup.
func TempDB(t *testing.T, migrationsDir string) *db.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := db.NewDB(path)
	if err != nil {
		t.Fatalf("failed to open temp store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.MigrateUp(migrationsDir); err != nil {
		t.Fatalf("failed to migrate temp store: %v", err)
	}
	return store
}

// SampleRecords returns a small fixed building set spanning two counties in
// two states, with one record missing its numeric outputs.
func SampleRecords() []resstock.BuildingRecord {
	nan := math.NaN()
	return []resstock.BuildingRecord{
		{
			BuildingID: 1, County: "G0800690", CountyName: "Larimer County", State: "CO",
			BuildingType: "Single-Family Detached", Vintage: "1980s",
			HeatingFuel: "Natural Gas", WaterHeaterFuel: "Natural Gas",
			FloorArea: 2000, Weight: 1.0,
			ElectricityKWh: 10, ElectricBillUSD: 100, EnergyBurdenPct: 2,
		},
		{
			BuildingID: 2, County: "G0800690", CountyName: "Larimer County", State: "CO",
			BuildingType: "Single-Family Detached", Vintage: "1990s",
			HeatingFuel: "Electricity", WaterHeaterFuel: "Electricity",
			FloorArea: 1500, Weight: 2.0,
			ElectricityKWh: 20, ElectricBillUSD: 200, EnergyBurdenPct: 4,
		},
		{
			BuildingID: 3, County: "G3600610", CountyName: "New York County", State: "NY",
			BuildingType: "Multi-Family with 5+ Units", Vintage: "1960s",
			HeatingFuel: "Fuel Oil", WaterHeaterFuel: "Fuel Oil",
			FloorArea: nan, Weight: 3.0,
			ElectricityKWh: nan, ElectricBillUSD: nan, EnergyBurdenPct: nan,
		},
	}
}

// SampleDataset wraps SampleRecords with the full column set present.
func SampleDataset() *resstock.Dataset {
	return resstock.NewDataset(SampleRecords(), []string{
		resstock.ColBuildingID,
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
	})
}

// LoadshapeCSV is a two day, 15 minute resolution timeseries body with one
// consumption column and one savings column that the reducer must ignore.
func LoadshapeCSV() string {
	return "timestamp,out.electricity.total.energy_consumption,out.electricity.total.energy_savings,units_represented\n" +
		"2018-01-01 00:15:00,1.0,0.5,100\n" +
		"2018-01-01 00:30:00,2.0,0.5,100\n" +
		"2018-01-01 01:15:00,4.0,0.5,100\n" +
		"2018-01-02 00:15:00,3.0,0.5,100\n"
}
