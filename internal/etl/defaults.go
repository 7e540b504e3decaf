package etl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults is an optional JSON overlay for Config. Fields omitted from the
// file keep the built-in defaults, so partial files are safe. Command-line
// flags are registered after the overlay is applied and win over both.
type Defaults struct {
	Dataset      *string `json:"dataset,omitempty"`
	DBFile       *string `json:"db_file,omitempty"`
	Migrations   *string `json:"migrations,omitempty"`
	UpgradesFile *string `json:"upgrades_file,omitempty"`

	States   []string `json:"states,omitempty"`
	Upgrades []int    `json:"upgrades,omitempty"`

	FetchWorkers *int    `json:"fetch_workers,omitempty"`
	RetryDelay   *string `json:"retry_delay,omitempty"` // duration string like "2s"
	BaseURL      *string `json:"base_url,omitempty"`
}

// LoadDefaults reads a Defaults overlay from a JSON file. The file must have
// a .json extension and stay under 1MB.
func LoadDefaults(path string) (*Defaults, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("defaults file must have .json extension, got %q", ext)
	}

	fi, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat defaults file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fi.Size() > maxFileSize {
		return nil, fmt.Errorf("defaults file too large: %d bytes (max %d)", fi.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}

	d := &Defaults{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse defaults JSON: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid defaults: %w", err)
	}
	return d, nil
}

// Validate checks the overlay values before they reach a Config.
func (d *Defaults) Validate() error {
	if d.FetchWorkers != nil && *d.FetchWorkers < 1 {
		return fmt.Errorf("fetch_workers must be at least 1, got %d", *d.FetchWorkers)
	}
	if d.RetryDelay != nil && *d.RetryDelay != "" {
		if _, err := time.ParseDuration(*d.RetryDelay); err != nil {
			return fmt.Errorf("invalid retry_delay %q: %w", *d.RetryDelay, err)
		}
	}
	for _, u := range d.Upgrades {
		if u < 0 {
			return fmt.Errorf("upgrade ids must be non-negative, got %d", u)
		}
	}
	return nil
}

// Apply overlays the set fields onto cfg.
func (d *Defaults) Apply(cfg *Config) {
	if d.Dataset != nil {
		cfg.DatasetPath = *d.Dataset
	}
	if d.DBFile != nil {
		cfg.DBPath = *d.DBFile
	}
	if d.Migrations != nil {
		cfg.MigrationsDir = *d.Migrations
	}
	if d.UpgradesFile != nil {
		cfg.UpgradesPath = *d.UpgradesFile
	}
	if len(d.States) > 0 {
		cfg.States = append([]string(nil), d.States...)
	}
	if len(d.Upgrades) > 0 {
		cfg.Upgrades = append([]int(nil), d.Upgrades...)
	}
	if d.FetchWorkers != nil {
		cfg.FetchWorkers = *d.FetchWorkers
	}
	if d.RetryDelay != nil && *d.RetryDelay != "" {
		if dur, err := time.ParseDuration(*d.RetryDelay); err == nil {
			cfg.RetryDelay = dur
		}
	}
	if d.BaseURL != nil {
		cfg.BaseURL = *d.BaseURL
	}
}
