// Command dashboard serves the read-only summary API and chart pages over
// an existing summary database produced by convert.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openenergy-data/resstock.report/internal/api"
	"github.com/openenergy-data/resstock.report/internal/db"
	"github.com/openenergy-data/resstock.report/internal/geo"
	"github.com/openenergy-data/resstock.report/internal/monitoring"
	"github.com/openenergy-data/resstock.report/internal/resstock"
	"github.com/openenergy-data/resstock.report/internal/version"
)

var (
	listen       = flag.String("listen", ":8080", "Listen address")
	dbFile       = flag.String("db-file", "resstock.db", "SQLite database file")
	geojsonFile  = flag.String("geojson", "", "County boundary GeoJSON file (optional)")
	upgradesFile = flag.String("upgrades-file", "upgrades_lookup.json", "Upgrades lookup JSON file")
	debugMode    = flag.Bool("debug", false, "Expose the admin debug routes")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	log.Printf("dashboard %s", version.String())

	store, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if ok, err := store.HasTable("county_summary"); err != nil || !ok {
		log.Fatalf("Database %s has no summary tables: run convert first", *dbFile)
	}

	var counties *geo.FeatureCollection
	if *geojsonFile != "" {
		counties, err = geo.LoadFeatureCollection(*geojsonFile)
		if err != nil {
			log.Fatalf("Failed to load GeoJSON: %v", err)
		}
		log.Printf("Loaded %d county boundaries from %s", len(counties.Features), *geojsonFile)
	}

	var upgrades []resstock.Upgrade
	if *upgradesFile != "" {
		upgrades, err = resstock.LoadUpgrades(*upgradesFile)
		if err != nil {
			log.Printf("No upgrades lookup: %v", err)
		}
	}

	metrics := monitoring.NewMetrics()
	metrics.StoreOpen.Set(1)

	mux := api.NewServer(store, counties, upgrades, metrics, *debugMode).ServeMux()

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	metrics.StoreOpen.Set(0)
	log.Printf("Graceful shutdown complete")
}
