package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openenergy-data/resstock.report/internal/aggregate"
	"github.com/openenergy-data/resstock.report/internal/db"
	"github.com/openenergy-data/resstock.report/internal/geo"
	"github.com/openenergy-data/resstock.report/internal/loadshape"
	"github.com/openenergy-data/resstock.report/internal/resstock"
	"github.com/openenergy-data/resstock.report/internal/testutil"
)

func testServer(t *testing.T, counties *geo.FeatureCollection) (*Server, *db.DB) {
	t.Helper()
	store := testutil.TempDB(t, "../../migrations")

	ds := testutil.SampleDataset()
	countySummaries, err := aggregate.BuildCountySummaries(ds)
	require.NoError(t, err)
	byType, err := aggregate.BuildCountyBuildingSummaries(ds)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceCountySummaries(countySummaries))
	require.NoError(t, store.ReplaceCountyBuildingSummaries(byType))

	avg := 1.5
	require.NoError(t, store.ReplaceLoadshapeSummaries([]loadshape.Row{
		{State: "CO", BuildingType: "Single-Family Detached", Upgrade: 0, HourOfDay: 0,
			ColumnName: "out.electricity.total.energy_consumption", AvgValue: &avg},
	}))

	upgrades := []resstock.Upgrade{{ID: 0, Name: "Baseline"}}
	return NewServer(store, counties, upgrades, nil, false), store
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, path))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestListStates(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := get(t, s, "/api/states")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var states []stateAPI
	decode(t, rec, &states)
	require.Len(t, states, 2)
	assert.Equal(t, "CO", states[0].Abbrev)
	assert.Equal(t, "Colorado", states[0].Name)
	assert.Equal(t, "08", states[0].FIPS)
}

func TestListCounties(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := get(t, s, "/api/counties?state=CO")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var counties []db.CountyRef
	decode(t, rec, &counties)
	require.Len(t, counties, 1)
	assert.Equal(t, "Larimer County", counties[0].CountyName)

	rec = get(t, s, "/api/counties")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestShowCounty(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := get(t, s, "/api/county?county=G0800690")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var summary aggregate.CountySummary
	decode(t, rec, &summary)
	assert.Equal(t, 2, summary.BuildingCount)
	assert.Equal(t, 3.0, summary.WeightedCount)

	rec = get(t, s, "/api/county?county=G9999999")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	rec = get(t, s, "/api/county")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestShowCountyBuildings(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := get(t, s, "/api/county_buildings?county=G0800690")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var rows []aggregate.CountyBuildingSummary
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Single-Family Detached", rows[0].BuildingType)

	rec = get(t, s, "/api/county_buildings?county=G9999999")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestCompareCounties(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := get(t, s, "/api/compare?a=G0800690&b=G3600610")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var cmp compareAPI
	decode(t, rec, &cmp)
	require.NotNil(t, cmp.A)
	require.NotNil(t, cmp.B)
	assert.Equal(t, "CO", cmp.A.State)
	assert.Equal(t, "NY", cmp.B.State)

	rec = get(t, s, "/api/compare?a=G0800690")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)

	rec = get(t, s, "/api/compare?a=G0800690&b=G9999999")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestShowLoadshape(t *testing.T) {
	s, _ := testServer(t, nil)

	// Without a column the endpoint lists the available columns.
	rec := get(t, s, "/api/loadshape?state=CO&building_type=Single-Family+Detached&upgrade=0")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var listing struct {
		Columns []string `json:"columns"`
	}
	decode(t, rec, &listing)
	assert.Equal(t, []string{"out.electricity.total.energy_consumption"}, listing.Columns)

	rec = get(t, s, "/api/loadshape?state=CO&building_type=Single-Family+Detached&upgrade=0&column=out.electricity.total.energy_consumption")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var rows []loadshape.Row
	decode(t, rec, &rows)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AvgValue)
	assert.Equal(t, 1.5, *rows[0].AvgValue)

	rec = get(t, s, "/api/loadshape?state=TX&building_type=Mobile+Home")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	rec = get(t, s, "/api/loadshape?state=CO")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)

	rec = get(t, s, "/api/loadshape?state=CO&building_type=Mobile+Home&upgrade=-1")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestListUpgradesAndRuns(t *testing.T) {
	s, store := testServer(t, nil)

	rec := get(t, s, "/api/upgrades")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var upgrades []resstock.Upgrade
	decode(t, rec, &upgrades)
	require.Len(t, upgrades, 1)
	assert.Equal(t, "Baseline", upgrades[0].Name)

	require.NoError(t, store.InsertAggregationRun(&db.AggregationRun{Mode: "counties"}))
	rec = get(t, s, "/api/runs")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var runs []db.AggregationRun
	decode(t, rec, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, "counties", runs[0].Mode)

	rec = get(t, s, "/api/runs?limit=zero")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := get(t, s, "/healthz")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
}

func TestShowConfig(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := get(t, s, "/api/config")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var cfg map[string]interface{}
	decode(t, rec, &cfg)
	assert.Equal(t, false, cfg["geojson"])
	assert.Equal(t, false, cfg["debug"])
}

func TestCountyGeoJSON(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := get(t, s, "/api/geo/counties")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	fc := &geo.FeatureCollection{Type: "FeatureCollection"}
	s, _ = testServer(t, fc)
	rec = get(t, s, "/api/geo/counties")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "FeatureCollection")
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := testServer(t, nil)
	rec := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodPost, "/api/states"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestChartPages(t *testing.T) {
	s, _ := testServer(t, nil)

	rec := get(t, s, "/charts/county?county=G0800690")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.True(t, strings.Contains(rec.Body.String(), "echarts"), "chart page should embed echarts")

	rec = get(t, s, "/charts/compare?a=G0800690&b=G3600610")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	rec = get(t, s, "/charts/loadshape?state=CO&building_type=Single-Family+Detached&upgrade=0")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	rec = get(t, s, "/charts/")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	rec = get(t, s, "/charts/loadshape?state=TX&building_type=Mobile+Home")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}
