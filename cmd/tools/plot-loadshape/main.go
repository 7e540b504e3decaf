// Command plot-loadshape renders one stored hourly profile to a PNG, for
// reports and quick eyeballing without the dashboard.
package main

import (
	"flag"
	"fmt"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "modernc.org/sqlite"

	"github.com/openenergy-data/resstock.report/internal/db"
)

var (
	dbFile       = flag.String("db-file", "resstock.db", "SQLite database file")
	state        = flag.String("state", "", "State abbreviation")
	buildingType = flag.String("building-type", "", "Building type label")
	upgrade      = flag.Int("upgrade", 0, "Upgrade id")
	column       = flag.String("column", "", "Timeseries column name (default: first available)")
	output       = flag.String("out", "loadshape.png", "Output PNG file")
)

func main() {
	flag.Parse()
	if *state == "" || *buildingType == "" {
		log.Fatal("-state and -building-type are required")
	}

	store, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	col := *column
	if col == "" {
		columns, err := store.LoadshapeColumns(*state, *buildingType, *upgrade)
		if err != nil {
			log.Fatalf("Failed to list columns: %v", err)
		}
		if len(columns) == 0 {
			log.Fatalf("No loadshape data for %s/%s upgrade %d", *state, *buildingType, *upgrade)
		}
		col = columns[0]
		log.Printf("Using column %s (%d available)", col, len(columns))
	}

	rows, err := store.LoadshapeSeries(*state, *buildingType, *upgrade, col)
	if err != nil {
		log.Fatalf("Failed to read series: %v", err)
	}
	if len(rows) == 0 {
		log.Fatalf("No data for column %s", col)
	}

	pts := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		if r.AvgValue == nil {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(r.HourOfDay), Y: *r.AvgValue})
	}
	if len(pts) == 0 {
		log.Fatalf("Column %s has no values", col)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s / %s / upgrade %d", *state, *buildingType, *upgrade)
	p.X.Label.Text = "hour of day"
	p.Y.Label.Text = col

	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatalf("Failed to build line: %v", err)
	}
	line.Width = vg.Points(1.5)
	p.Add(line, plotter.NewGrid())
	p.Legend.Add(col, line)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 5*vg.Inch, *output); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	log.Printf("Wrote %s", *output)
}
