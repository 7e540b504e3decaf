// Package loadshape builds the hourly load-shape summary: for each requested
// (state, upgrade, building type) combination it fetches the published hourly
// aggregate series from the public OEDI data lake, reduces it to 24
// hour-of-day means per metric column, and reports any combinations it had
// to skip.
package loadshape

import (
	"fmt"
	"strings"
)

// Row is one row of the loadshape_summary table: the mean value of one
// metric column at one hour of day for a combination. AvgValue is nil when
// the source series had no samples in that hour bucket.
type Row struct {
	State        string   `json:"state"`
	BuildingType string   `json:"building_type"`
	Upgrade      int      `json:"upgrade"`
	HourOfDay    int      `json:"hour_of_day"`
	ColumnName   string   `json:"column_name"`
	AvgValue     *float64 `json:"avg_value"`
}

// Combination identifies one remote series.
type Combination struct {
	State        string
	BuildingType string
	Upgrade      int
}

func (c Combination) String() string {
	return fmt.Sprintf("%s/%s/upgrade=%d", c.State, c.BuildingType, c.Upgrade)
}

// FetchError records a combination whose remote file was missing or
// unreadable. Non-fatal: the combination is skipped and the run continues.
type FetchError struct {
	Combination
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Combination, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Result is the outcome for a single combination: either its table fragment
// or a typed failure, never both.
type Result struct {
	Combination
	Rows []Row
	Err  *FetchError
}

// SkipReport collects the combinations skipped during a run.
type SkipReport []*FetchError

// Summary renders a one-line-per-skip report for the operator.
func (r SkipReport) Summary() string {
	if len(r) == 0 {
		return "no combinations skipped"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d combination(s) skipped:", len(r))
	for _, e := range r {
		fmt.Fprintf(&b, "\n  %s: %v", e.Combination, e.Err)
	}
	return b.String()
}

// BuildingTypeFiles maps the dataset's building-type labels onto the file
// name fragments used by the data lake's object keys.
var BuildingTypeFiles = map[string]string{
	"Single-Family Detached":        "single-family_detached",
	"Single-Family Attached":        "single-family_attached",
	"Mobile Home":                   "mobile_home",
	"Multi-Family with 2 - 4 Units": "multi-family_with_2_-_4_units",
	"Multi-Family with 5+ Units":    "multi-family_with_5plus_units",
}

// BuildingTypes returns the known building-type labels in stable order.
func BuildingTypes() []string {
	return []string{
		"Mobile Home",
		"Multi-Family with 2 - 4 Units",
		"Multi-Family with 5+ Units",
		"Single-Family Attached",
		"Single-Family Detached",
	}
}

// DefaultBaseURL is the public S3 prefix for the per-state hourly aggregates.
const DefaultBaseURL = "https://oedi-data-lake.s3.amazonaws.com/nrel-pds-building-stock/end-use-load-profiles-for-us-building-stock/2024/resstock_amy2018_release_2/timeseries_aggregates/by_state"

// ObjectURL constructs the object URL for a combination. The "=" in the
// upgrade and state key segments is percent-encoded in the published keys.
func ObjectURL(baseURL string, c Combination) string {
	file, ok := BuildingTypeFiles[c.BuildingType]
	if !ok {
		file = "single-family_detached"
	}
	return fmt.Sprintf("%s/upgrade%%3D%d/state%%3D%s/up%02d-%s-%s.csv",
		baseURL, c.Upgrade, c.State, c.Upgrade, strings.ToLower(c.State), file)
}
