package db

import (
	"database/sql"
	"fmt"

	"github.com/openenergy-data/resstock.report/internal/aggregate"
	"github.com/openenergy-data/resstock.report/internal/loadshape"
)

// replaceAll clears a table and reinserts rows inside one transaction, so a
// rebuild is an idempotent wholesale overwrite and readers never observe a
// half-written table.
func (db *DB) replaceAll(table string, insert func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return &StoreError{Op: "begin " + table, Err: err}
	}
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		tx.Rollback()
		return &StoreError{Op: "clear " + table, Err: err}
	}
	if err := insert(tx); err != nil {
		tx.Rollback()
		return &StoreError{Op: "write " + table, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "commit " + table, Err: err}
	}
	return nil
}

// ReplaceCountySummaries rebuilds the county_summary table.
func (db *DB) ReplaceCountySummaries(rows []aggregate.CountySummary) error {
	return db.replaceAll("county_summary", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO county_summary (
			in_county, fips, in_county_name, in_state,
			building_count, weighted_count,
			avg_floor_area, avg_vintage, avg_electricity_kwh, avg_electric_bill, avg_energy_burden,
			most_common_building_type, most_common_heating_fuel, most_common_water_heater_fuel,
			in_heating_fuel_dist, in_water_heater_fuel_dist, in_vintage_dist
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.Exec(
				r.County, r.FIPS, r.CountyName, r.State,
				r.BuildingCount, r.WeightedCount,
				nullable(r.AvgFloorArea), nullable(r.AvgVintage), nullable(r.AvgElectricityKWh),
				nullable(r.AvgElectricBill), nullable(r.AvgEnergyBurden),
				r.MostCommonType, r.MostCommonHeating, r.MostCommonWaterHeat,
				r.HeatingFuelDist, r.WaterHeaterFuelDist, r.VintageDist,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceCountyBuildingSummaries rebuilds the county_building_summary table.
func (db *DB) ReplaceCountyBuildingSummaries(rows []aggregate.CountyBuildingSummary) error {
	return db.replaceAll("county_building_summary", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO county_building_summary (
			in_county, fips, in_county_name, in_state, in_geometry_building_type_recs,
			building_count, weighted_count,
			avg_floor_area, avg_vintage, avg_electricity_kwh, avg_electric_bill, avg_energy_burden,
			most_common_heating_fuel, most_common_water_heater_fuel,
			in_heating_fuel_dist, in_water_heater_fuel_dist, in_vintage_dist
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.Exec(
				r.County, r.FIPS, r.CountyName, r.State, r.BuildingType,
				r.BuildingCount, r.WeightedCount,
				nullable(r.AvgFloorArea), nullable(r.AvgVintage), nullable(r.AvgElectricityKWh),
				nullable(r.AvgElectricBill), nullable(r.AvgEnergyBurden),
				r.MostCommonHeating, r.MostCommonWaterHeat,
				r.HeatingFuelDist, r.WaterHeaterFuelDist, r.VintageDist,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceLoadshapeSummaries rebuilds the loadshape_summary table. The
// loadshape table has its own lifecycle: rebuilding it never touches the
// county tables.
func (db *DB) ReplaceLoadshapeSummaries(rows []loadshape.Row) error {
	return db.replaceAll("loadshape_summary", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO loadshape_summary (
			state, building_type, upgrade, hour_of_day, column_name, avg_value
		) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.Exec(
				r.State, r.BuildingType, r.Upgrade, r.HourOfDay, r.ColumnName, nullable(r.AvgValue),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
