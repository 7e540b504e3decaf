package loadshape

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts covers the formats seen in the published series files.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// selectColumn reports whether a series column belongs in the summary:
// energy totals (excluding savings deltas) and the LRMER emissions columns.
func selectColumn(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "total") && !strings.Contains(lower, "savings") {
		return true
	}
	if strings.Contains(lower, "emissions") && strings.Contains(name, "_15.") {
		return true
	}
	return false
}

// ReduceSeries parses one combination's hourly CSV and reduces the selected
// columns to their mean value per hour of day. Every selected column yields
// 24 rows; hours with no samples carry a nil mean.
func ReduceSeries(r io.Reader, c Combination) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read series header: %w", err)
	}

	tsIdx := -1
	type column struct {
		idx  int
		name string
	}
	var selected []column
	for i, name := range header {
		if name == "timestamp" {
			tsIdx = i
			continue
		}
		if selectColumn(name) {
			selected = append(selected, column{idx: i, name: name})
		}
	}
	if tsIdx < 0 {
		return nil, fmt.Errorf("series has no timestamp column")
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("series has no total or emissions columns")
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].name < selected[j].name })

	// sums[column][hour], counts[column][hour]
	sums := make([][24]float64, len(selected))
	counts := make([][24]int, len(selected))

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read series row: %w", err)
		}
		if tsIdx >= len(rec) {
			continue
		}
		ts, err := parseTimestamp(rec[tsIdx])
		if err != nil {
			return nil, err
		}
		hour := ts.Hour()
		for si, col := range selected {
			if col.idx >= len(rec) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col.idx]), 64)
			if err != nil {
				continue
			}
			sums[si][hour] += v
			counts[si][hour]++
		}
	}

	rows := make([]Row, 0, len(selected)*24)
	for si, col := range selected {
		for hour := 0; hour < 24; hour++ {
			row := Row{
				State:        c.State,
				BuildingType: c.BuildingType,
				Upgrade:      c.Upgrade,
				HourOfDay:    hour,
				ColumnName:   col.name,
			}
			if counts[si][hour] > 0 {
				avg := sums[si][hour] / float64(counts[si][hour])
				row.AvgValue = &avg
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
