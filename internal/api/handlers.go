package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/openenergy-data/resstock.report/internal/aggregate"
	"github.com/openenergy-data/resstock.report/internal/geo"
	"github.com/openenergy-data/resstock.report/internal/httputil"
	"github.com/openenergy-data/resstock.report/internal/version"
)

type stateAPI struct {
	Abbrev string `json:"abbrev"`
	Name   string `json:"name"`
	FIPS   string `json:"fips"`
}

func (s *Server) listStates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	abbrevs, err := s.db.States()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve states: %v", err))
		return
	}
	states := make([]stateAPI, 0, len(abbrevs))
	for _, a := range abbrevs {
		entry := stateAPI{Abbrev: a, Name: a}
		if st, ok := geo.StateByAbbrev(a); ok {
			entry.Name = st.Name
			entry.FIPS = st.FIPS
		}
		states = append(states, entry)
	}
	httputil.WriteJSONOK(w, states)
}

func (s *Server) listCounties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		httputil.BadRequest(w, "Missing 'state' parameter")
		return
	}
	counties, err := s.db.CountiesByState(state)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve counties: %v", err))
		return
	}
	httputil.WriteJSONOK(w, counties)
}

func (s *Server) showCounty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	county := r.URL.Query().Get("county")
	if county == "" {
		httputil.BadRequest(w, "Missing 'county' parameter")
		return
	}
	summary, err := s.lookupCounty(w, county)
	if summary == nil || err != nil {
		return
	}
	httputil.WriteJSONOK(w, summary)
}

// lookupCounty fetches one county summary, writing the error response
// itself. A nil summary means the response is already written.
func (s *Server) lookupCounty(w http.ResponseWriter, county string) (*aggregate.CountySummary, error) {
	summary, err := s.db.CountySummary(county)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, fmt.Sprintf("Unknown county %q", county))
			return nil, err
		}
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve county: %v", err))
		return nil, err
	}
	return summary, nil
}

func (s *Server) showCountyBuildings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	county := r.URL.Query().Get("county")
	if county == "" {
		httputil.BadRequest(w, "Missing 'county' parameter")
		return
	}
	summaries, err := s.db.CountyBuildingSummaries(county)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve county buildings: %v", err))
		return
	}
	if len(summaries) == 0 {
		httputil.NotFound(w, fmt.Sprintf("Unknown county %q", county))
		return
	}
	httputil.WriteJSONOK(w, summaries)
}

type compareAPI struct {
	A *aggregate.CountySummary `json:"a"`
	B *aggregate.CountySummary `json:"b"`
}

func (s *Server) compareCounties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		httputil.BadRequest(w, "Missing 'a' or 'b' parameter")
		return
	}
	summaryA, err := s.lookupCounty(w, a)
	if err != nil {
		return
	}
	summaryB, err := s.lookupCounty(w, b)
	if err != nil {
		return
	}
	httputil.WriteJSONOK(w, compareAPI{A: summaryA, B: summaryB})
}

// showLoadshape returns one hourly series, or the available column names for
// the combination when no column is requested.
func (s *Server) showLoadshape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	buildingType := q.Get("building_type")
	if state == "" || buildingType == "" {
		httputil.BadRequest(w, "Missing 'state' or 'building_type' parameter")
		return
	}
	upgrade := 0
	if u := q.Get("upgrade"); u != "" {
		parsed, err := strconv.Atoi(u)
		if err != nil || parsed < 0 {
			httputil.BadRequest(w, "Invalid 'upgrade' parameter")
			return
		}
		upgrade = parsed
	}

	column := q.Get("column")
	if column == "" {
		columns, err := s.db.LoadshapeColumns(state, buildingType, upgrade)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve columns: %v", err))
			return
		}
		if len(columns) == 0 {
			httputil.NotFound(w, "No loadshape data for that combination")
			return
		}
		httputil.WriteJSONOK(w, map[string]interface{}{"columns": columns})
		return
	}

	rows, err := s.db.LoadshapeSeries(state, buildingType, upgrade, column)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve loadshape: %v", err))
		return
	}
	if len(rows) == 0 {
		httputil.NotFound(w, "No loadshape data for that combination")
		return
	}
	httputil.WriteJSONOK(w, rows)
}

func (s *Server) listUpgrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if len(s.upgrades) == 0 {
		httputil.NotFound(w, "No upgrades lookup loaded")
		return
	}
	httputil.WriteJSONOK(w, s.upgrades)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}
	runs, err := s.db.ListAggregationRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	config := map[string]interface{}{
		"version":  version.String(),
		"db_file":  s.db.Path,
		"geojson":  s.counties != nil,
		"upgrades": len(s.upgrades),
		"debug":    s.debug,
	}
	httputil.WriteJSONOK(w, config)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	ok, err := s.db.HasTable("county_summary")
	if err != nil || !ok {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

func (s *Server) showCountyGeoJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.counties == nil {
		httputil.NotFound(w, "No county GeoJSON loaded")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	httputil.WriteJSONOK(w, s.counties)
}
