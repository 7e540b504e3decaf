// Package geo holds static geographic reference data: the state FIPS table
// and helpers to derive county GEOIDs from ResStock county identifiers.
// Nothing in this package is ever written by the pipeline; it is joined
// against by the aggregator and the dashboard.
package geo

import (
	"fmt"
	"strings"
)

// State describes one US state in the FIPS reference table.
type State struct {
	FIPS   string
	Abbrev string
	Name   string
}

var states = []State{
	{"01", "AL", "Alabama"},
	{"02", "AK", "Alaska"},
	{"04", "AZ", "Arizona"},
	{"05", "AR", "Arkansas"},
	{"06", "CA", "California"},
	{"08", "CO", "Colorado"},
	{"09", "CT", "Connecticut"},
	{"10", "DE", "Delaware"},
	{"11", "DC", "District of Columbia"},
	{"12", "FL", "Florida"},
	{"13", "GA", "Georgia"},
	{"15", "HI", "Hawaii"},
	{"16", "ID", "Idaho"},
	{"17", "IL", "Illinois"},
	{"18", "IN", "Indiana"},
	{"19", "IA", "Iowa"},
	{"20", "KS", "Kansas"},
	{"21", "KY", "Kentucky"},
	{"22", "LA", "Louisiana"},
	{"23", "ME", "Maine"},
	{"24", "MD", "Maryland"},
	{"25", "MA", "Massachusetts"},
	{"26", "MI", "Michigan"},
	{"27", "MN", "Minnesota"},
	{"28", "MS", "Mississippi"},
	{"29", "MO", "Missouri"},
	{"30", "MT", "Montana"},
	{"31", "NE", "Nebraska"},
	{"32", "NV", "Nevada"},
	{"33", "NH", "New Hampshire"},
	{"34", "NJ", "New Jersey"},
	{"35", "NM", "New Mexico"},
	{"36", "NY", "New York"},
	{"37", "NC", "North Carolina"},
	{"38", "ND", "North Dakota"},
	{"39", "OH", "Ohio"},
	{"40", "OK", "Oklahoma"},
	{"41", "OR", "Oregon"},
	{"42", "PA", "Pennsylvania"},
	{"44", "RI", "Rhode Island"},
	{"45", "SC", "South Carolina"},
	{"46", "SD", "South Dakota"},
	{"47", "TN", "Tennessee"},
	{"48", "TX", "Texas"},
	{"49", "UT", "Utah"},
	{"50", "VT", "Vermont"},
	{"51", "VA", "Virginia"},
	{"53", "WA", "Washington"},
	{"54", "WV", "West Virginia"},
	{"55", "WI", "Wisconsin"},
	{"56", "WY", "Wyoming"},
}

var (
	byFIPS   = make(map[string]State, len(states))
	byAbbrev = make(map[string]State, len(states))
)

func init() {
	for _, s := range states {
		byFIPS[s.FIPS] = s
		byAbbrev[s.Abbrev] = s
	}
}

// States returns the full state reference table in FIPS order.
func States() []State {
	out := make([]State, len(states))
	copy(out, states)
	return out
}

// StateByFIPS looks up a state by its two-digit FIPS code.
func StateByFIPS(fips string) (State, bool) {
	s, ok := byFIPS[fips]
	return s, ok
}

// StateByAbbrev looks up a state by its postal abbreviation (case-insensitive).
func StateByAbbrev(abbrev string) (State, bool) {
	s, ok := byAbbrev[strings.ToUpper(abbrev)]
	return s, ok
}

// CountyGEOID derives the census GEOID ("0500000US" + state FIPS + county
// FIPS) from a ResStock county identifier such as "G0100010": position 1-2
// carries the state FIPS and position 4-6 the county FIPS.
func CountyGEOID(countyID string) (string, error) {
	if len(countyID) < 7 {
		return "", fmt.Errorf("county id %q too short to carry FIPS codes", countyID)
	}
	stateFIPS := countyID[1:3]
	countyFIPS := countyID[4:7]
	return "0500000US" + stateFIPS + countyFIPS, nil
}
