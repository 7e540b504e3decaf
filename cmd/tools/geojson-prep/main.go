// Command geojson-prep slims a full US county boundary GeoJSON down to the
// properties the dashboard map needs, dropping territory features.
package main

import (
	"flag"
	"log"

	"github.com/openenergy-data/resstock.report/internal/geo"
)

var (
	input  = flag.String("in", "", "Input county GeoJSON file")
	output = flag.String("out", "counties_slim.geojson", "Output file")
)

func main() {
	flag.Parse()
	if *input == "" {
		log.Fatal("-in is required")
	}

	fc, err := geo.LoadFeatureCollection(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	slim := fc.Slim()
	if err := slim.WriteFile(*output); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Printf("Wrote %d of %d features to %s", len(slim.Features), len(fc.Features), *output)
}
