package resstock

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV loads a baseline dataset from a CSV export with a header row.
// Intended for fixtures and smaller extracts; the parquet reader is the
// production path. Header names are cleaned the same way as parquet columns.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colNames := make([]string, len(header))
	for i, h := range header {
		colNames[i] = CleanColumnName(h)
	}

	var records []BuildingRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, csvRowToRecord(row, colNames))
	}

	return NewDataset(records, colNames), nil
}

func csvRowToRecord(row []string, colNames []string) BuildingRecord {
	rec := BuildingRecord{
		FloorArea:       parseNumeric(""),
		Weight:          parseNumeric(""),
		ElectricityKWh:  parseNumeric(""),
		ElectricBillUSD: parseNumeric(""),
		EnergyBurdenPct: parseNumeric(""),
	}
	for i, cell := range row {
		if i >= len(colNames) {
			break
		}
		switch colNames[i] {
		case ColBuildingID:
			if id, err := strconv.ParseInt(cell, 10, 64); err == nil {
				rec.BuildingID = id
			}
		case ColCounty:
			rec.County = cell
		case ColCountyName:
			rec.CountyName = cell
		case ColState:
			rec.State = cell
		case ColBuildingType:
			rec.BuildingType = NormalizeCategory(cell)
		case ColVintage:
			rec.Vintage = NormalizeCategory(cell)
		case ColHeatingFuel:
			rec.HeatingFuel = NormalizeCategory(cell)
		case ColWaterHeaterFuel:
			rec.WaterHeaterFuel = NormalizeCategory(cell)
		case ColFloorArea:
			rec.FloorArea = parseNumeric(cell)
		case ColWeight:
			rec.Weight = parseNumeric(cell)
		case ColElectricityKWh:
			rec.ElectricityKWh = parseNumeric(cell)
		case ColElectricBill:
			rec.ElectricBillUSD = parseNumeric(cell)
		case ColEnergyBurden:
			rec.EnergyBurdenPct = parseNumeric(cell)
		}
	}
	return rec
}
