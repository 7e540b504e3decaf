package loadshape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/openenergy-data/resstock.report/internal/httputil"
)

func testFetcher(client httputil.HTTPClient) *Fetcher {
	return &Fetcher{
		Client:     client,
		Clock:      clockwork.NewRealClock(),
		BaseURL:    "https://example.com/by_state",
		Workers:    2,
		RetryDelay: time.Millisecond,
	}
}

func TestCombinations(t *testing.T) {
	combos := Combinations([]string{"CO", "NY"}, []int{0, 1}, []string{"Mobile Home"})
	if len(combos) != 4 {
		t.Fatalf("expected 4 combinations, got %d", len(combos))
	}
	want := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 0}
	if combos[0] != want {
		t.Errorf("combos[0] = %+v, want %+v", combos[0], want)
	}
}

func TestBuildSummaries(t *testing.T) {
	c := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 0}
	mock := httputil.NewMockHTTPClient()
	mock.SetURLResponse(ObjectURL("https://example.com/by_state", c), 200, seriesFixture)

	f := testFetcher(mock)
	rows, report, err := f.BuildSummaries(context.Background(), []Combination{c})
	if err != nil {
		t.Fatalf("BuildSummaries failed: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("unexpected skips: %s", report.Summary())
	}
	if len(rows) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(rows))
	}
	if mock.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", mock.RequestCount())
	}
}

// A missing object is retried once, then skipped; the other combinations
// still produce rows.
func TestBuildSummariesSkipsMissing(t *testing.T) {
	good := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 0}
	bad := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 9}

	mock := httputil.NewMockHTTPClient()
	mock.SetURLResponse(ObjectURL("https://example.com/by_state", good), 200, seriesFixture)

	f := testFetcher(mock)
	rows, report, err := f.BuildSummaries(context.Background(), []Combination{good, bad})
	if err != nil {
		t.Fatalf("BuildSummaries failed: %v", err)
	}
	if len(rows) != 24 {
		t.Errorf("expected 24 rows from the good combination, got %d", len(rows))
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(report))
	}
	if report[0].Combination != bad {
		t.Errorf("skipped %+v, want %+v", report[0].Combination, bad)
	}
	// 1 request for good, 2 for bad (initial plus retry).
	if mock.RequestCount() != 3 {
		t.Errorf("RequestCount = %d, want 3", mock.RequestCount())
	}
}

// A transient failure succeeds on the retry after the delay elapses.
func TestFetchOneRetry(t *testing.T) {
	c := Combination{State: "CO", BuildingType: "Mobile Home", Upgrade: 0}
	mock := httputil.NewMockHTTPClient()
	mock.AddErrorResponse(errors.New("connection reset"))
	mock.AddResponse(200, seriesFixture)

	fc := clockwork.NewFakeClock()
	f := testFetcher(mock)
	f.Clock = fc
	f.RetryDelay = 2 * time.Second

	done := make(chan Result, 1)
	go func() { done <- f.fetchOne(context.Background(), c) }()

	fc.BlockUntil(1)
	fc.Advance(2 * time.Second)

	res := <-done
	if res.Err != nil {
		t.Fatalf("fetchOne failed after retry: %v", res.Err)
	}
	if len(res.Rows) != 24 {
		t.Errorf("expected 24 rows, got %d", len(res.Rows))
	}
	if mock.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", mock.RequestCount())
	}
}

func TestBuildSummariesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := testFetcher(httputil.NewMockHTTPClient())
	combos := Combinations([]string{"CO"}, []int{0}, BuildingTypes())
	_, _, err := f.BuildSummaries(ctx, combos)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
