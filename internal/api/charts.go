package api

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/openenergy-data/resstock.report/internal/aggregate"
	"github.com/openenergy-data/resstock.report/internal/httputil"
)

// distributionPie renders a categorical distribution as a pie.
func distributionPie(title string, dist aggregate.Distribution) *charts.Pie {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(dist))
	for name, count := range dist {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	data := make([]opts.PieData, 0, len(entries))
	for _, e := range entries {
		data = append(data, opts.PieData{Name: e.name, Value: e.count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Left: "left"}),
	)
	pie.AddSeries(title, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func renderPage(w http.ResponseWriter, title string, chartList ...components.Charter) {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(chartList...)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// chartCounty renders the distribution pies and the per-building-type bar
// chart for one county.
func (s *Server) chartCounty(w http.ResponseWriter, r *http.Request) {
	county := r.URL.Query().Get("county")
	if county == "" {
		httputil.BadRequest(w, "Missing 'county' parameter")
		return
	}
	summary, err := s.lookupCounty(w, county)
	if err != nil {
		return
	}

	title := fmt.Sprintf("%s, %s", summary.CountyName, summary.State)
	heating := distributionPie("Heating Fuel", aggregate.DecodeDistribution(summary.HeatingFuelDist))
	water := distributionPie("Water Heater Fuel", aggregate.DecodeDistribution(summary.WaterHeaterFuelDist))
	vintage := distributionPie("Vintage", aggregate.DecodeDistribution(summary.VintageDist))

	buildings, err := s.db.CountyBuildingSummaries(county)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve county buildings: %v", err))
		return
	}
	x := make([]string, 0, len(buildings))
	y := make([]opts.BarData, 0, len(buildings))
	for _, b := range buildings {
		x = append(x, b.BuildingType)
		y = append(y, opts.BarData{Value: b.WeightedCount})
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("weighted units by building type (%d sampled)", summary.BuildingCount)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("weighted units", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	renderPage(w, title, bar, heating, water, vintage)
}

// chartCompare renders side by side distribution pies for two counties.
func (s *Server) chartCompare(w http.ResponseWriter, r *http.Request) {
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

	nameA := fmt.Sprintf("%s, %s", summaryA.CountyName, summaryA.State)
	nameB := fmt.Sprintf("%s, %s", summaryB.CountyName, summaryB.State)

	renderPage(w, fmt.Sprintf("%s vs %s", nameA, nameB),
		distributionPie("Heating Fuel: "+nameA, aggregate.DecodeDistribution(summaryA.HeatingFuelDist)),
		distributionPie("Heating Fuel: "+nameB, aggregate.DecodeDistribution(summaryB.HeatingFuelDist)),
		distributionPie("Vintage: "+nameA, aggregate.DecodeDistribution(summaryA.VintageDist)),
		distributionPie("Vintage: "+nameB, aggregate.DecodeDistribution(summaryB.VintageDist)),
	)
}

// chartLoadshape renders the 24 hour average profile for one combination.
// With no column parameter every available column is drawn as its own line.
func (s *Server) chartLoadshape(w http.ResponseWriter, r *http.Request) {
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

	columns := []string{}
	if c := q.Get("column"); c != "" {
		columns = append(columns, c)
	} else {
		all, err := s.db.LoadshapeColumns(state, buildingType, upgrade)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve columns: %v", err))
			return
		}
		columns = all
	}
	if len(columns) == 0 {
		httputil.NotFound(w, "No loadshape data for that combination")
		return
	}

	hours := make([]string, 24)
	for h := range hours {
		hours[h] = fmt.Sprintf("%02d:00", h)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s / %s / upgrade %d", state, buildingType, upgrade),
			Subtitle: "average hourly profile",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Bottom: "0"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "600px"}),
	)
	line.SetXAxis(hours)

	plotted := 0
	for _, column := range columns {
		rows, err := s.db.LoadshapeSeries(state, buildingType, upgrade, column)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve loadshape: %v", err))
			return
		}
		if len(rows) == 0 {
			continue
		}
		data := make([]opts.LineData, 24)
		for h := range data {
			data[h] = opts.LineData{Value: nil}
		}
		for _, row := range rows {
			if row.HourOfDay >= 0 && row.HourOfDay < 24 && row.AvgValue != nil {
				data[row.HourOfDay] = opts.LineData{Value: *row.AvgValue}
			}
		}
		line.AddSeries(column, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		plotted++
	}
	if plotted == 0 {
		httputil.NotFound(w, "No loadshape data for that combination")
		return
	}

	renderPage(w, "Loadshape", line)
}

const chartsIndexHTML = `<!DOCTYPE html>
<html>
<head>
<title>ResStock Summary Charts</title>
<style>
body { font-family: sans-serif; margin: 2em; }
iframe { border: 1px solid #ccc; width: 100%%; height: 700px; margin-bottom: 2em; }
</style>
</head>
<body>
<h1>ResStock Summary Charts</h1>
<p>County: <code>%s</code></p>
<iframe src="/charts/county?county=%s"></iframe>
<p>Other views: <a href="/charts/compare?a=%s&amp;b=%s">compare</a>,
<a href="/charts/loadshape?state=%s&amp;building_type=Single-Family%%20Detached&amp;upgrade=0">loadshape</a>.</p>
</body>
</html>`

// chartsIndex lists the chart pages, defaulting to the first county in the
// store so the page works with no parameters.
func (s *Server) chartsIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/charts/" && r.URL.Path != "/charts" {
		httputil.NotFound(w, "not found")
		return
	}
	county := r.URL.Query().Get("county")
	state := r.URL.Query().Get("state")
	if county == "" {
		states, err := s.db.States()
		if err != nil || len(states) == 0 {
			httputil.NotFound(w, "store is empty: run the aggregator first")
			return
		}
		if state == "" {
			state = states[0]
		}
		counties, err := s.db.CountiesByState(state)
		if err != nil || len(counties) == 0 {
			httputil.NotFound(w, "store is empty: run the aggregator first")
			return
		}
		county = counties[0].County
	}
	if state == "" {
		if summary, err := s.db.CountySummary(county); err == nil {
			state = summary.State
		}
	}

	safeCounty := url.QueryEscape(county)
	doc := fmt.Sprintf(chartsIndexHTML,
		html.EscapeString(county), safeCounty, safeCounty, safeCounty,
		url.QueryEscape(state))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
