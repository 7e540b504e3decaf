package db

import (
	"database/sql"
	"fmt"

	"github.com/openenergy-data/resstock.report/internal/aggregate"
	"github.com/openenergy-data/resstock.report/internal/loadshape"
)

// CountyRef identifies a county for listings and dropdowns.
type CountyRef struct {
	County     string `json:"in_county"`
	CountyName string `json:"in_county_name"`
	State      string `json:"in_state"`
}

// States lists the distinct states present in the county summary table.
func (db *DB) States() ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT in_state FROM county_summary ORDER BY in_state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

// CountiesByState lists the counties of one state ordered by name.
func (db *DB) CountiesByState(state string) ([]CountyRef, error) {
	rows, err := db.Query(`SELECT in_county, in_county_name, in_state
		FROM county_summary WHERE in_state = ? ORDER BY in_county_name`, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counties []CountyRef
	for rows.Next() {
		var c CountyRef
		if err := rows.Scan(&c.County, &c.CountyName, &c.State); err != nil {
			return nil, err
		}
		counties = append(counties, c)
	}
	return counties, rows.Err()
}

// CountySummary does a point lookup by county identifier. Returns
// sql.ErrNoRows when the county is not in the store.
func (db *DB) CountySummary(county string) (*aggregate.CountySummary, error) {
	row := db.QueryRow(`SELECT in_county, fips, in_county_name, in_state,
		building_count, weighted_count,
		avg_floor_area, avg_vintage, avg_electricity_kwh, avg_electric_bill, avg_energy_burden,
		most_common_building_type, most_common_heating_fuel, most_common_water_heater_fuel,
		in_heating_fuel_dist, in_water_heater_fuel_dist, in_vintage_dist
		FROM county_summary WHERE in_county = ?`, county)

	var s aggregate.CountySummary
	var floorArea, vintage, kwh, bill, burden sql.NullFloat64
	if err := row.Scan(
		&s.County, &s.FIPS, &s.CountyName, &s.State,
		&s.BuildingCount, &s.WeightedCount,
		&floorArea, &vintage, &kwh, &bill, &burden,
		&s.MostCommonType, &s.MostCommonHeating, &s.MostCommonWaterHeat,
		&s.HeatingFuelDist, &s.WaterHeaterFuelDist, &s.VintageDist,
	); err != nil {
		return nil, err
	}
	s.AvgFloorArea = fromNull(floorArea)
	s.AvgVintage = fromNull(vintage)
	s.AvgElectricityKWh = fromNull(kwh)
	s.AvgElectricBill = fromNull(bill)
	s.AvgEnergyBurden = fromNull(burden)
	return &s, nil
}

// CountyBuildingSummaries returns the per-building-type rows of one county.
func (db *DB) CountyBuildingSummaries(county string) ([]aggregate.CountyBuildingSummary, error) {
	rows, err := db.Query(`SELECT in_county, fips, in_county_name, in_state,
		in_geometry_building_type_recs, building_count, weighted_count,
		avg_floor_area, avg_vintage, avg_electricity_kwh, avg_electric_bill, avg_energy_burden,
		most_common_heating_fuel, most_common_water_heater_fuel,
		in_heating_fuel_dist, in_water_heater_fuel_dist, in_vintage_dist
		FROM county_building_summary WHERE in_county = ?
		ORDER BY in_geometry_building_type_recs`, county)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []aggregate.CountyBuildingSummary
	for rows.Next() {
		var s aggregate.CountyBuildingSummary
		var floorArea, vintage, kwh, bill, burden sql.NullFloat64
		if err := rows.Scan(
			&s.County, &s.FIPS, &s.CountyName, &s.State,
			&s.BuildingType, &s.BuildingCount, &s.WeightedCount,
			&floorArea, &vintage, &kwh, &bill, &burden,
			&s.MostCommonHeating, &s.MostCommonWaterHeat,
			&s.HeatingFuelDist, &s.WaterHeaterFuelDist, &s.VintageDist,
		); err != nil {
			return nil, err
		}
		s.AvgFloorArea = fromNull(floorArea)
		s.AvgVintage = fromNull(vintage)
		s.AvgElectricityKWh = fromNull(kwh)
		s.AvgElectricBill = fromNull(bill)
		s.AvgEnergyBurden = fromNull(burden)
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadshapeStates lists the distinct states covered by the loadshape table.
func (db *DB) LoadshapeStates() ([]string, error) {
	return db.stringColumn(`SELECT DISTINCT state FROM loadshape_summary ORDER BY state`)
}

// LoadshapeBuildingTypes lists the distinct building types present in the
// county_building_summary table; used to expand unfiltered loadshape runs.
func (db *DB) LoadshapeBuildingTypes() ([]string, error) {
	return db.stringColumn(`SELECT DISTINCT in_geometry_building_type_recs
		FROM county_building_summary ORDER BY in_geometry_building_type_recs`)
}

// LoadshapeColumns lists the metric columns stored for one combination.
func (db *DB) LoadshapeColumns(state, buildingType string, upgrade int) ([]string, error) {
	return db.stringColumn(`SELECT DISTINCT column_name FROM loadshape_summary
		WHERE state = ? AND building_type = ? AND upgrade = ?
		ORDER BY column_name`, state, buildingType, upgrade)
}

// LoadshapeSeries returns the 24 hourly rows of one (combination, column)
// series, ordered by hour.
func (db *DB) LoadshapeSeries(state, buildingType string, upgrade int, column string) ([]loadshape.Row, error) {
	rows, err := db.Query(`SELECT state, building_type, upgrade, hour_of_day, column_name, avg_value
		FROM loadshape_summary
		WHERE state = ? AND building_type = ? AND upgrade = ? AND column_name = ?
		ORDER BY hour_of_day`, state, buildingType, upgrade, column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loadshape.Row
	for rows.Next() {
		var r loadshape.Row
		var v sql.NullFloat64
		if err := rows.Scan(&r.State, &r.BuildingType, &r.Upgrade, &r.HourOfDay, &r.ColumnName, &v); err != nil {
			return nil, err
		}
		r.AvgValue = fromNull(v)
		out = append(out, r)
	}
	return out, rows.Err()
}

// HasTable reports whether a table exists in the store.
func (db *DB) HasTable(name string) (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TableCount returns the row count of a summary table.
func (db *DB) TableCount(name string) (int, error) {
	switch name {
	case "county_summary", "county_building_summary", "loadshape_summary", "aggregation_runs":
	default:
		return 0, fmt.Errorf("unknown table %q", name)
	}
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM " + name).Scan(&count)
	return count, err
}

func (db *DB) stringColumn(query string, args ...interface{}) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
