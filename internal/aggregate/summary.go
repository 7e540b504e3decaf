// Package aggregate reduces the baseline building dataset into the summary
// shapes the dashboard reads: per-county and per-(county, building type)
// rows with counts, weighted counts, metric means and category distributions.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// CountySummary is one row of the county_summary table.
type CountySummary struct {
	County              string   `json:"in_county"`
	FIPS                string   `json:"fips"`
	CountyName          string   `json:"in_county_name"`
	State               string   `json:"in_state"`
	BuildingCount       int      `json:"building_count"`
	WeightedCount       float64  `json:"weighted_count"`
	AvgFloorArea        *float64 `json:"avg_floor_area"`
	AvgVintage          *float64 `json:"avg_vintage"`
	AvgElectricityKWh   *float64 `json:"avg_electricity_kwh"`
	AvgElectricBill     *float64 `json:"avg_electric_bill"`
	AvgEnergyBurden     *float64 `json:"avg_energy_burden"`
	MostCommonType      string   `json:"most_common_building_type"`
	MostCommonHeating   string   `json:"most_common_heating_fuel"`
	MostCommonWaterHeat string   `json:"most_common_water_heater_fuel"`
	HeatingFuelDist     string   `json:"in_heating_fuel_dist"`
	WaterHeaterFuelDist string   `json:"in_water_heater_fuel_dist"`
	VintageDist         string   `json:"in_vintage_dist"`
}

// CountyBuildingSummary is one row of the county_building_summary table.
type CountyBuildingSummary struct {
	County              string   `json:"in_county"`
	FIPS                string   `json:"fips"`
	CountyName          string   `json:"in_county_name"`
	State               string   `json:"in_state"`
	BuildingType        string   `json:"in_geometry_building_type_recs"`
	BuildingCount       int      `json:"building_count"`
	WeightedCount       float64  `json:"weighted_count"`
	AvgFloorArea        *float64 `json:"avg_floor_area"`
	AvgVintage          *float64 `json:"avg_vintage"`
	AvgElectricityKWh   *float64 `json:"avg_electricity_kwh"`
	AvgElectricBill     *float64 `json:"avg_electric_bill"`
	AvgEnergyBurden     *float64 `json:"avg_energy_burden"`
	MostCommonHeating   string   `json:"most_common_heating_fuel"`
	MostCommonWaterHeat string   `json:"most_common_water_heater_fuel"`
	HeatingFuelDist     string   `json:"in_heating_fuel_dist"`
	WaterHeaterFuelDist string   `json:"in_water_heater_fuel_dist"`
	VintageDist         string   `json:"in_vintage_dist"`
}

// Distribution counts category occurrences within a group.
type Distribution map[string]int

// Add increments the count for a category.
func (d Distribution) Add(category string) {
	d[category]++
}

// Mode returns the most frequent category; ties break lexicographically so
// output is deterministic. Empty distributions return "".
func (d Distribution) Mode() string {
	best := ""
	bestN := 0
	for k, n := range d {
		if n > bestN || (n == bestN && best != "" && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// Encode renders the compact "category:count,category:count" form stored in
// the summary tables, ordered by descending count then category name.
func (d Distribution) Encode() string {
	type kv struct {
		k string
		n int
	}
	items := make([]kv, 0, len(d))
	for k, n := range d {
		items = append(items, kv{k, n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].n != items[j].n {
			return items[i].n > items[j].n
		}
		return items[i].k < items[j].k
	})
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s:%d", it.k, it.n)
	}
	return strings.Join(parts, ",")
}

// DecodeDistribution parses the stored "category:count,..." form back into a
// Distribution. Malformed segments are skipped.
func DecodeDistribution(s string) Distribution {
	d := Distribution{}
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			d[strings.TrimSpace(k)] = n
		}
	}
	return d
}
