package aggregate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/openenergy-data/resstock.report/internal/geo"
	"github.com/openenergy-data/resstock.report/internal/resstock"
)

// DataError reports a malformed input dataset: a required column is missing
// or there are no rows at all. Fatal to the aggregation stage that raised it.
type DataError struct {
	Column string
	Msg    string
}

func (e *DataError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("dataset error: column %s: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("dataset error: %s", e.Msg)
}

// accumulator collects one group's members during the reduction.
type accumulator struct {
	county       string
	countyName   string
	state        string
	buildingType string

	count       int
	weightSum   float64
	floorAreas  []float64
	vintages    []float64
	electricity []float64
	bills       []float64
	burdens     []float64

	types       Distribution
	heating     Distribution
	waterHeater Distribution
	vintageDist Distribution
}

func newAccumulator(county, countyName, state, buildingType string) *accumulator {
	return &accumulator{
		county:       county,
		countyName:   countyName,
		state:        state,
		buildingType: buildingType,
		types:        Distribution{},
		heating:      Distribution{},
		waterHeater:  Distribution{},
		vintageDist:  Distribution{},
	}
}

func (a *accumulator) add(r resstock.BuildingRecord) {
	a.count++
	if math.IsNaN(r.Weight) {
		// Datasets without a weight column count each building once.
		a.weightSum += 1
	} else {
		a.weightSum += r.Weight
	}
	appendValid(&a.floorAreas, r.FloorArea)
	appendValid(&a.vintages, resstock.VintageYear(r.Vintage))
	appendValid(&a.electricity, r.ElectricityKWh)
	appendValid(&a.bills, r.ElectricBillUSD)
	appendValid(&a.burdens, r.EnergyBurdenPct)

	a.types.Add(r.BuildingType)
	a.heating.Add(r.HeatingFuel)
	a.waterHeater.Add(r.WaterHeaterFuel)
	a.vintageDist.Add(r.Vintage)
}

func appendValid(dst *[]float64, v float64) {
	if !math.IsNaN(v) {
		*dst = append(*dst, v)
	}
}

// mean returns the unweighted mean of the valid samples, or nil when the
// group had no usable values for this metric.
func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := stat.Mean(xs, nil)
	return &m
}

func checkDataset(ds *resstock.Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return &DataError{Msg: "dataset is empty"}
	}
	if !ds.HasColumn(resstock.ColCounty) {
		return &DataError{Column: resstock.ColCounty, Msg: "required column missing"}
	}
	return nil
}

// BuildCountySummaries groups all records by county identifier and reduces
// each group to a CountySummary. The weighted count of each row is exactly
// the sum of its members' weights. Output is sorted by county id.
func BuildCountySummaries(ds *resstock.Dataset) ([]CountySummary, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}

	groups := map[string]*accumulator{}
	for _, r := range ds.Records {
		acc, ok := groups[r.County]
		if !ok {
			acc = newAccumulator(r.County, r.CountyName, r.State, "")
			groups[r.County] = acc
		}
		acc.add(r)
	}

	out := make([]CountySummary, 0, len(groups))
	for _, acc := range groups {
		fips, err := geo.CountyGEOID(acc.county)
		if err != nil {
			return nil, &DataError{Column: resstock.ColCounty, Msg: err.Error()}
		}
		out = append(out, CountySummary{
			County:              acc.county,
			FIPS:                fips,
			CountyName:          acc.countyName,
			State:               acc.state,
			BuildingCount:       acc.count,
			WeightedCount:       acc.weightSum,
			AvgFloorArea:        mean(acc.floorAreas),
			AvgVintage:          mean(acc.vintages),
			AvgElectricityKWh:   mean(acc.electricity),
			AvgElectricBill:     mean(acc.bills),
			AvgEnergyBurden:     mean(acc.burdens),
			MostCommonType:      acc.types.Mode(),
			MostCommonHeating:   acc.heating.Mode(),
			MostCommonWaterHeat: acc.waterHeater.Mode(),
			HeatingFuelDist:     acc.heating.Encode(),
			WaterHeaterFuelDist: acc.waterHeater.Encode(),
			VintageDist:         acc.vintageDist.Encode(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].County < out[j].County })
	return out, nil
}

// BuildCountyBuildingSummaries is the finer-grained reduction grouped by
// (county identifier, building type). Output is sorted by county id then
// building type.
func BuildCountyBuildingSummaries(ds *resstock.Dataset) ([]CountyBuildingSummary, error) {
	if err := checkDataset(ds); err != nil {
		return nil, err
	}
	if !ds.HasColumn(resstock.ColBuildingType) {
		return nil, &DataError{Column: resstock.ColBuildingType, Msg: "required column missing"}
	}

	type key struct{ county, buildingType string }
	groups := map[key]*accumulator{}
	for _, r := range ds.Records {
		k := key{r.County, r.BuildingType}
		acc, ok := groups[k]
		if !ok {
			acc = newAccumulator(r.County, r.CountyName, r.State, r.BuildingType)
			groups[k] = acc
		}
		acc.add(r)
	}

	out := make([]CountyBuildingSummary, 0, len(groups))
	for _, acc := range groups {
		fips, err := geo.CountyGEOID(acc.county)
		if err != nil {
			return nil, &DataError{Column: resstock.ColCounty, Msg: err.Error()}
		}
		out = append(out, CountyBuildingSummary{
			County:              acc.county,
			FIPS:                fips,
			CountyName:          acc.countyName,
			State:               acc.state,
			BuildingType:        acc.buildingType,
			BuildingCount:       acc.count,
			WeightedCount:       acc.weightSum,
			AvgFloorArea:        mean(acc.floorAreas),
			AvgVintage:          mean(acc.vintages),
			AvgElectricityKWh:   mean(acc.electricity),
			AvgElectricBill:     mean(acc.bills),
			AvgEnergyBurden:     mean(acc.burdens),
			MostCommonHeating:   acc.heating.Mode(),
			MostCommonWaterHeat: acc.waterHeater.Mode(),
			HeatingFuelDist:     acc.heating.Encode(),
			WaterHeaterFuelDist: acc.waterHeater.Encode(),
			VintageDist:         acc.vintageDist.Encode(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].County != out[j].County {
			return out[i].County < out[j].County
		}
		return out[i].BuildingType < out[j].BuildingType
	})
	return out, nil
}
