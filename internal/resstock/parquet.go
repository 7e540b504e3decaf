package resstock

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ReadParquet loads the baseline parquet file into a Dataset. Column names
// are cleaned (periods to underscores) before matching, so both the raw
// "in.county" and pre-cleaned "in_county" spellings resolve to the same
// field. Unrecognised columns are ignored but still reported in Columns.
func ReadParquet(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parse parquet file: %w", err)
	}

	paths := pf.Schema().Columns()
	colNames := make([]string, len(paths))
	for i, p := range paths {
		colNames[i] = CleanColumnName(strings.Join(p, "."))
	}

	var records []BuildingRecord
	buf := make([]parquet.Row, 256)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				records = append(records, rowToRecord(row, colNames))
			}
			if err != nil {
				rows.Close()
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read parquet rows: %w", err)
			}
			if n == 0 {
				rows.Close()
				break
			}
		}
	}

	return NewDataset(records, colNames), nil
}

func rowToRecord(row parquet.Row, colNames []string) BuildingRecord {
	rec := BuildingRecord{
		FloorArea:       math.NaN(),
		Weight:          math.NaN(),
		ElectricityKWh:  math.NaN(),
		ElectricBillUSD: math.NaN(),
		EnergyBurdenPct: math.NaN(),
	}
	for _, v := range row {
		idx := v.Column()
		if idx < 0 || idx >= len(colNames) {
			continue
		}
		switch colNames[idx] {
		case ColBuildingID:
			rec.BuildingID = valueInt(v)
		case ColCounty:
			rec.County = valueString(v)
		case ColCountyName:
			rec.CountyName = valueString(v)
		case ColState:
			rec.State = valueString(v)
		case ColBuildingType:
			rec.BuildingType = NormalizeCategory(valueString(v))
		case ColVintage:
			rec.Vintage = NormalizeCategory(valueString(v))
		case ColHeatingFuel:
			rec.HeatingFuel = NormalizeCategory(valueString(v))
		case ColWaterHeaterFuel:
			rec.WaterHeaterFuel = NormalizeCategory(valueString(v))
		case ColFloorArea:
			rec.FloorArea = valueFloat(v)
		case ColWeight:
			rec.Weight = valueFloat(v)
		case ColElectricityKWh:
			rec.ElectricityKWh = valueFloat(v)
		case ColElectricBill:
			rec.ElectricBillUSD = valueFloat(v)
		case ColEnergyBurden:
			rec.EnergyBurdenPct = valueFloat(v)
		}
	}
	return rec
}

func valueString(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

func valueFloat(v parquet.Value) float64 {
	if v.IsNull() {
		return math.NaN()
	}
	switch v.Kind() {
	case parquet.Double:
		return v.Double()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return parseNumeric(string(v.ByteArray()))
	default:
		return math.NaN()
	}
}

func valueInt(v parquet.Value) int64 {
	if v.IsNull() {
		return 0
	}
	switch v.Kind() {
	case parquet.Int64:
		return v.Int64()
	case parquet.Int32:
		return int64(v.Int32())
	default:
		f := valueFloat(v)
		if math.IsNaN(f) {
			return 0
		}
		return int64(f)
	}
}
