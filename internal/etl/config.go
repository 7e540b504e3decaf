// Package etl orchestrates the aggregation run: load the baseline dataset,
// reduce it, and replace the summary tables in the store. Modes mirror the
// command surface: counties, loadshape, or all.
package etl

import "time"

// Mode selects which aggregation stages run.
type Mode string

const (
	ModeCounties  Mode = "counties"
	ModeLoadshape Mode = "loadshape"
	ModeAll       Mode = "all"
)

// ParseMode validates a mode selector string.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeCounties, ModeLoadshape, ModeAll:
		return Mode(s), true
	}
	return "", false
}

// Config carries one run's settings. It is passed by value into the runner
// and never mutated: filters and paths live here, not in package state.
type Config struct {
	DatasetPath   string
	DBPath        string
	MigrationsDir string
	UpgradesPath  string

	// Loadshape filters; empty means all available.
	States   []string
	Upgrades []int

	FetchWorkers int
	RetryDelay   time.Duration
	BaseURL      string
}

// DefaultConfig returns the conventional file locations and fetch settings.
func DefaultConfig() Config {
	return Config{
		DatasetPath:   "baseline.parquet",
		DBPath:        "resstock.db",
		MigrationsDir: "migrations",
		UpgradesPath:  "upgrades_lookup.json",
		FetchWorkers:  4,
		RetryDelay:    2 * time.Second,
	}
}
