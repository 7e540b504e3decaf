package loadshape

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/openenergy-data/resstock.report/internal/httputil"
	"github.com/openenergy-data/resstock.report/internal/monitoring"
)

// Fetcher pulls combination series from the object store and reduces them.
// Fetches are independent so they run on a bounded worker pool; a failed
// combination gets one retry after RetryDelay, then is skipped.
type Fetcher struct {
	Client     httputil.HTTPClient
	Clock      clockwork.Clock
	BaseURL    string
	Workers    int
	RetryDelay time.Duration
}

// NewFetcher creates a Fetcher with production defaults.
func NewFetcher(client httputil.HTTPClient) *Fetcher {
	if client == nil {
		client = httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second})
	}
	return &Fetcher{
		Client:     client,
		Clock:      clockwork.NewRealClock(),
		BaseURL:    DefaultBaseURL,
		Workers:    4,
		RetryDelay: 2 * time.Second,
	}
}

// Combinations expands the requested state, upgrade and building-type filters
// into the cross product of combinations to fetch. Empty slices are not
// defaulted here; callers resolve "all available" before calling.
func Combinations(states []string, upgrades []int, buildingTypes []string) []Combination {
	combos := make([]Combination, 0, len(states)*len(upgrades)*len(buildingTypes))
	for _, s := range states {
		for _, bt := range buildingTypes {
			for _, u := range upgrades {
				combos = append(combos, Combination{State: s, BuildingType: bt, Upgrade: u})
			}
		}
	}
	return combos
}

// BuildSummaries fetches and reduces every combination. It returns all rows
// from the successful combinations plus a report of the skipped ones. The
// only error return is context cancellation; per-combination failures land in
// the report.
func (f *Fetcher) BuildSummaries(ctx context.Context, combos []Combination) ([]Row, SkipReport, error) {
	workers := f.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan Combination)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				results <- f.fetchOne(ctx, c)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range combos {
			select {
			case jobs <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var rows []Row
	var report SkipReport
	for res := range results {
		if res.Err != nil {
			monitoring.Logf("loadshape: skipping %s: %v", res.Combination, res.Err.Err)
			report = append(report, res.Err)
			continue
		}
		rows = append(rows, res.Rows...)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(report, func(i, j int) bool {
		a, b := report[i].Combination, report[j].Combination
		if a.State != b.State {
			return a.State < b.State
		}
		if a.BuildingType != b.BuildingType {
			return a.BuildingType < b.BuildingType
		}
		return a.Upgrade < b.Upgrade
	})
	sortRows(rows)
	return rows, report, nil
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.State != b.State {
			return a.State < b.State
		}
		if a.BuildingType != b.BuildingType {
			return a.BuildingType < b.BuildingType
		}
		if a.Upgrade != b.Upgrade {
			return a.Upgrade < b.Upgrade
		}
		if a.ColumnName != b.ColumnName {
			return a.ColumnName < b.ColumnName
		}
		return a.HourOfDay < b.HourOfDay
	})
}

// fetchOne fetches a combination with one best-effort retry.
func (f *Fetcher) fetchOne(ctx context.Context, c Combination) Result {
	rows, err := f.fetchSeries(ctx, c)
	if err != nil && ctx.Err() == nil {
		select {
		case <-f.Clock.After(f.RetryDelay):
		case <-ctx.Done():
			return Result{Combination: c, Err: &FetchError{Combination: c, Err: ctx.Err()}}
		}
		rows, err = f.fetchSeries(ctx, c)
	}
	if err != nil {
		return Result{Combination: c, Err: &FetchError{Combination: c, Err: err}}
	}
	return Result{Combination: c, Rows: rows}
}

func (f *Fetcher) fetchSeries(ctx context.Context, c Combination) ([]Row, error) {
	url := ObjectURL(f.BaseURL, c)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	return ReduceSeries(resp.Body, c)
}
