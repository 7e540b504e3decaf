package resstock

import (
	"math"
	"strings"
	"testing"
)

const csvFixture = `bldg_id,in.county,in.county_name,in.state,in.geometry_building_type_recs,in.vintage,in.heating_fuel,in.water_heater_fuel,in.geometry_floor_area,weight,out.electricity.total.energy_consumption,out.bills.electricity_usd,out.energy_burden_percentage
1,G0800690,Larimer County,CO,Single-Family Detached,1980s,Natural Gas,Natural Gas,2000,1.0,10,100,2
2,G0800690,Larimer County,CO,Mobile Home,,None,Electricity,,2.0,20,,
`

func TestReadCSV(t *testing.T) {
	ds, err := readCSV(strings.NewReader(csvFixture))
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", ds.Len())
	}
	if !ds.HasColumn(ColCounty) || !ds.HasColumn(ColElectricityKWh) {
		t.Error("cleaned column names missing from dataset")
	}

	first := ds.Records[0]
	if first.BuildingID != 1 || first.County != "G0800690" || first.State != "CO" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.FloorArea != 2000 || first.ElectricityKWh != 10 {
		t.Errorf("unexpected numerics: %+v", first)
	}

	second := ds.Records[1]
	if second.Vintage != UnknownCategory {
		t.Errorf("empty vintage = %q, want %q", second.Vintage, UnknownCategory)
	}
	if second.HeatingFuel != UnknownCategory {
		t.Errorf("None heating fuel = %q, want %q", second.HeatingFuel, UnknownCategory)
	}
	if !math.IsNaN(second.FloorArea) || !math.IsNaN(second.ElectricBillUSD) {
		t.Errorf("missing numerics should be NaN: %+v", second)
	}
	if second.Weight != 2.0 {
		t.Errorf("Weight = %v, want 2.0", second.Weight)
	}
}

func TestReadCSVEmptyBody(t *testing.T) {
	ds, err := readCSV(strings.NewReader("bldg_id,in.county\n"))
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("expected no records, got %d", ds.Len())
	}
	if !ds.HasColumn(ColCounty) {
		t.Error("header columns should still be recorded")
	}
}

func TestReadCSVNoHeader(t *testing.T) {
	if _, err := readCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error on empty input")
	}
}
