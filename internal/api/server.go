package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openenergy-data/resstock.report/internal/db"
	"github.com/openenergy-data/resstock.report/internal/geo"
	"github.com/openenergy-data/resstock.report/internal/monitoring"
	"github.com/openenergy-data/resstock.report/internal/resstock"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server serves the read-only summary API and the chart pages. It never
// writes to the store.
type Server struct {
	db       *db.DB
	counties *geo.FeatureCollection
	upgrades []resstock.Upgrade
	metrics  *monitoring.Metrics
	debug    bool
}

// NewServer wires a server. The GeoJSON collection and upgrades list may be
// nil; the corresponding endpoints then report not found.
func NewServer(store *db.DB, counties *geo.FeatureCollection, upgrades []resstock.Upgrade, metrics *monitoring.Metrics, debug bool) *Server {
	return &Server{
		db:       store,
		counties: counties,
		upgrades: upgrades,
		metrics:  metrics,
		debug:    debug,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// instrument records request counts and latency per route pattern.
func (s *Server) instrument(pattern string, h http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		h(lrw, r)
		s.metrics.HTTPRequests.WithLabelValues(pattern, strconv.Itoa(lrw.statusCode)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"/api/states":           s.listStates,
		"/api/counties":         s.listCounties,
		"/api/county":           s.showCounty,
		"/api/county_buildings": s.showCountyBuildings,
		"/api/compare":          s.compareCounties,
		"/api/loadshape":        s.showLoadshape,
		"/api/upgrades":         s.listUpgrades,
		"/api/runs":             s.listRuns,
		"/api/config":           s.showConfig,
		"/api/geo/counties":     s.showCountyGeoJSON,
		"/healthz":              s.healthz,
		"/charts/":              s.chartsIndex,
		"/charts/county":        s.chartCounty,
		"/charts/compare":       s.chartCompare,
		"/charts/loadshape":     s.chartLoadshape,
	}
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, s.instrument(pattern, handler))
	}
	mux.Handle("/metrics", promhttp.Handler())
	if s.debug {
		s.db.AttachAdminRoutes(mux)
	}
	return mux
}
