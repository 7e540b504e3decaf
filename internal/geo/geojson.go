package geo

import (
	"encoding/json"
	"fmt"
	"os"
)

// FeatureCollection is a minimal GeoJSON document: only the pieces the
// dashboard joins on are modelled, geometries pass through untouched.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single county polygon with its identifying properties.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// LoadFeatureCollection reads and parses a GeoJSON file.
func LoadFeatureCollection(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected geojson type %q", fc.Type)
	}
	return &fc, nil
}

// Slim rewrites each feature's properties down to the county name, GEOID and
// state attribution the dashboard needs, dropping everything else. Features
// whose state FIPS is not in the reference table (territories) are skipped.
func (fc *FeatureCollection) Slim() *FeatureCollection {
	out := &FeatureCollection{Type: "FeatureCollection"}
	for _, f := range fc.Features {
		stateFIPS, _ := f.Properties["STATEFP"].(string)
		st, ok := StateByFIPS(stateFIPS)
		if !ok {
			continue
		}
		name, _ := f.Properties["NAME"].(string)
		geoid, _ := f.Properties["GEOID"].(string)
		out.Features = append(out.Features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"county_name": name,
				"geoid":       "0500000US" + geoid,
				"state_fips":  stateFIPS,
				"state_name":  st.Name,
				"state":       st.Abbrev,
			},
			Geometry: f.Geometry,
		})
	}
	return out
}

// WriteFile serialises the collection to path.
func (fc *FeatureCollection) WriteFile(path string) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
