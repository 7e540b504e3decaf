// Package resstock reads the ResStock baseline building dataset. The raw
// input is one row per simulated building; records are immutable once loaded.
package resstock

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Column names after cleaning (dots in the raw dataset become underscores,
// matching the relational store's column naming).
const (
	ColBuildingID      = "bldg_id"
	ColCounty          = "in_county"
	ColCountyName      = "in_county_name"
	ColState           = "in_state"
	ColBuildingType    = "in_geometry_building_type_recs"
	ColVintage         = "in_vintage"
	ColHeatingFuel     = "in_heating_fuel"
	ColWaterHeaterFuel = "in_water_heater_fuel"
	ColFloorArea       = "in_geometry_floor_area"
	ColWeight          = "weight"
	ColElectricityKWh  = "out_electricity_total_energy_consumption"
	ColElectricBill    = "out_bills_electricity_usd"
	ColEnergyBurden    = "out_energy_burden_percentage"
)

// UnknownCategory is the bucket for records with a missing or empty
// categorical value. Such records are never dropped from the aggregation.
const UnknownCategory = "Unknown"

// BuildingRecord is one simulated building. Numeric fields use NaN for
// missing values so means can skip them without biasing counts.
type BuildingRecord struct {
	BuildingID      int64
	County          string
	CountyName      string
	State           string
	BuildingType    string
	Vintage         string
	HeatingFuel     string
	WaterHeaterFuel string
	FloorArea       float64
	Weight          float64
	ElectricityKWh  float64
	ElectricBillUSD float64
	EnergyBurdenPct float64
}

// CleanColumnName rewrites a raw dataset column name into its cleaned form:
// periods become underscores.
func CleanColumnName(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// NormalizeCategory maps empty or null-ish categorical values onto
// UnknownCategory and trims surrounding whitespace otherwise.
func NormalizeCategory(v string) string {
	v = strings.TrimSpace(v)
	switch v {
	case "", "None", "NA", "N/A", "null":
		return UnknownCategory
	}
	return v
}

var vintageYearRe = regexp.MustCompile(`(\d{4})`)

// VintageYear extracts a numeric year from a vintage bucket label such as
// "1970s", "<1940" or "2010s". The decade labels resolve to their first year.
// Returns NaN when no year can be read (including UnknownCategory).
func VintageYear(vintage string) float64 {
	m := vintageYearRe.FindString(vintage)
	if m == "" {
		return math.NaN()
	}
	year, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return year
}

// parseNumeric converts a raw cell into a float64, NaN on failure. Mirrors a
// coercing numeric conversion: junk and blanks become missing, not errors.
func parseNumeric(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
