package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/openenergy-data/resstock.report/internal/aggregate"
	"github.com/openenergy-data/resstock.report/internal/db"
	"github.com/openenergy-data/resstock.report/internal/loadshape"
	"github.com/openenergy-data/resstock.report/internal/monitoring"
	"github.com/openenergy-data/resstock.report/internal/resstock"
)

// Runner executes aggregation stages against one store.
type Runner struct {
	cfg     Config
	store   *db.DB
	fetcher *loadshape.Fetcher
	metrics *monitoring.Metrics
}

// NewRunner wires a runner. A nil fetcher gets production defaults from the
// config; a nil metrics set disables instrumentation.
func NewRunner(cfg Config, store *db.DB, fetcher *loadshape.Fetcher, metrics *monitoring.Metrics) *Runner {
	if fetcher == nil {
		fetcher = loadshape.NewFetcher(nil)
		if cfg.BaseURL != "" {
			fetcher.BaseURL = cfg.BaseURL
		}
		if cfg.FetchWorkers > 0 {
			fetcher.Workers = cfg.FetchWorkers
		}
		if cfg.RetryDelay > 0 {
			fetcher.RetryDelay = cfg.RetryDelay
		}
	}
	return &Runner{cfg: cfg, store: store, fetcher: fetcher, metrics: metrics}
}

// Run dispatches on mode. In ModeAll the counties stage runs first and a
// failure in either stage does not block the other; the joined error carries
// every stage that failed so the command can exit non-zero.
func (r *Runner) Run(ctx context.Context, mode Mode) error {
	run := &db.AggregationRun{Mode: string(mode), StartedAt: time.Now()}

	var countiesErr, loadshapeErr error
	switch mode {
	case ModeCounties:
		countiesErr = r.runCounties(ctx, run)
	case ModeLoadshape:
		loadshapeErr = r.runLoadshape(ctx, run)
	case ModeAll:
		countiesErr = r.runCounties(ctx, run)
		loadshapeErr = r.runLoadshape(ctx, run)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	err := errors.Join(countiesErr, loadshapeErr)
	now := time.Now()
	run.FinishedAt = &now
	if err != nil {
		run.Error = err.Error()
	}
	if insertErr := r.store.InsertAggregationRun(run); insertErr != nil {
		monitoring.Logf("etl: failed to record run: %v", insertErr)
	}
	return err
}

// runCounties loads the baseline dataset and rebuilds both county tables.
func (r *Runner) runCounties(ctx context.Context, run *db.AggregationRun) error {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.StageDuration.WithLabelValues("counties").Observe(time.Since(start).Seconds())
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	ds, err := r.loadDataset()
	if err != nil {
		return err
	}
	monitoring.Logf("etl: loaded %d building records from %s", ds.Len(), r.cfg.DatasetPath)
	if r.metrics != nil {
		r.metrics.RecordsAggregated.Add(float64(ds.Len()))
	}

	counties, err := aggregate.BuildCountySummaries(ds)
	if err != nil {
		return fmt.Errorf("county summaries: %w", err)
	}
	countyBuildings, err := aggregate.BuildCountyBuildingSummaries(ds)
	if err != nil {
		return fmt.Errorf("county building summaries: %w", err)
	}

	if err := r.store.ReplaceCountySummaries(counties); err != nil {
		return err
	}
	if err := r.store.ReplaceCountyBuildingSummaries(countyBuildings); err != nil {
		return err
	}

	run.CountyRows = len(counties)
	run.CountyBuildingRows = len(countyBuildings)
	if r.metrics != nil {
		r.metrics.SummaryRowsWritten.WithLabelValues("county_summary").Add(float64(len(counties)))
		r.metrics.SummaryRowsWritten.WithLabelValues("county_building_summary").Add(float64(len(countyBuildings)))
	}
	monitoring.Logf("etl: wrote %d county rows, %d county/building rows", len(counties), len(countyBuildings))
	return nil
}

// runLoadshape expands the requested filters, fetches every combination and
// rebuilds the loadshape table. Per-combination fetch failures are skipped
// and summarised; the stage only fails when nothing at all was fetched or
// the store rejects the write.
func (r *Runner) runLoadshape(ctx context.Context, run *db.AggregationRun) error {
	start := time.Now()
	defer func() {
		if r.metrics != nil {
			r.metrics.StageDuration.WithLabelValues("loadshape").Observe(time.Since(start).Seconds())
		}
	}()

	states, upgrades, buildingTypes, err := r.resolveFilters()
	if err != nil {
		return err
	}

	combos := loadshape.Combinations(states, upgrades, buildingTypes)
	monitoring.Logf("etl: fetching %d loadshape combinations (%d states, %d building types, %d upgrades)",
		len(combos), len(states), len(buildingTypes), len(upgrades))

	rows, skipped, err := r.fetcher.BuildSummaries(ctx, combos)
	if err != nil {
		return err
	}
	run.SkippedCombinations = len(skipped)
	if r.metrics != nil {
		r.metrics.CombosFetched.WithLabelValues("success").Add(float64(len(combos) - len(skipped)))
		r.metrics.CombosFetched.WithLabelValues("skipped").Add(float64(len(skipped)))
	}
	if len(skipped) > 0 {
		monitoring.Logf("etl: %s", skipped.Summary())
	}
	if len(rows) == 0 {
		return fmt.Errorf("loadshape stage produced no rows (%d combinations skipped)", len(skipped))
	}

	if err := r.store.ReplaceLoadshapeSummaries(rows); err != nil {
		return err
	}
	run.LoadshapeRows = len(rows)
	if r.metrics != nil {
		r.metrics.SummaryRowsWritten.WithLabelValues("loadshape_summary").Add(float64(len(rows)))
	}
	monitoring.Logf("etl: wrote %d loadshape rows", len(rows))
	return nil
}

func (r *Runner) loadDataset() (*resstock.Dataset, error) {
	switch strings.ToLower(filepath.Ext(r.cfg.DatasetPath)) {
	case ".csv":
		return resstock.ReadCSV(r.cfg.DatasetPath)
	default:
		return resstock.ReadParquet(r.cfg.DatasetPath)
	}
}

// resolveFilters turns empty filter slices into "all available": states from
// the county summary table, upgrades from the lookup file, building types
// from the store (falling back to the known label set on an empty store).
func (r *Runner) resolveFilters() (states []string, upgrades []int, buildingTypes []string, err error) {
	states = normalizeStates(r.cfg.States)
	if len(states) == 0 {
		states, err = r.store.States()
		if err != nil {
			return nil, nil, nil, &db.StoreError{Op: "list states", Err: err}
		}
		if len(states) == 0 {
			return nil, nil, nil, fmt.Errorf("no states available: run the counties stage first or pass state filters")
		}
	}

	upgrades = r.cfg.Upgrades
	if len(upgrades) == 0 {
		lookup, err := resstock.LoadUpgrades(r.cfg.UpgradesPath)
		if err != nil {
			return nil, nil, nil, err
		}
		upgrades = resstock.UpgradeIDs(lookup)
	}

	buildingTypes, err = r.store.LoadshapeBuildingTypes()
	if err != nil || len(buildingTypes) == 0 {
		buildingTypes = loadshape.BuildingTypes()
	}
	return states, upgrades, buildingTypes, nil
}

func normalizeStates(states []string) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
