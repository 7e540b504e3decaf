// Command convert builds the summary tables from a ResStock baseline
// dataset and the public timeseries buckets.
//
// Usage:
//
//	convert counties  -dataset baseline.parquet -db-file resstock.db
//	convert loadshape -db-file resstock.db -state CO -state NY -upgrade 0
//	convert all       -dataset baseline.parquet -db-file resstock.db
//	convert migrate   -db-file resstock.db
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openenergy-data/resstock.report/internal/db"
	"github.com/openenergy-data/resstock.report/internal/etl"
	"github.com/openenergy-data/resstock.report/internal/version"
)

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// intList is a repeatable non-negative integer flag.
type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid upgrade id %q", v)
	}
	*l = append(*l, n)
	return nil
}

// defaultsPath pre-scans args for the -defaults flag so the overlay can be
// applied before the remaining flags register their default values.
func defaultsPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "-defaults" || a == "--defaults":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-defaults="):
			return strings.TrimPrefix(a, "-defaults=")
		case strings.HasPrefix(a, "--defaults="):
			return strings.TrimPrefix(a, "--defaults=")
		}
	}
	return ""
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <counties|loadshape|all|migrate> [flags]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Run with a subcommand and -h for its flags.")
	os.Exit(2)
}

func main() {
	log.Printf("convert %s", version.String())

	if len(os.Args) < 2 {
		usage()
	}
	sub := os.Args[1]
	args := os.Args[2:]

	if sub == "migrate" {
		runMigrate(args)
		return
	}

	mode, ok := etl.ParseMode(sub)
	if !ok {
		usage()
	}

	cfg := etl.DefaultConfig()
	if path := defaultsPath(args); path != "" {
		defaults, err := etl.LoadDefaults(path)
		if err != nil {
			log.Fatalf("Failed to load defaults file: %v", err)
		}
		defaults.Apply(&cfg)
	}
	var states stringList
	var upgrades intList

	fs := flag.NewFlagSet(sub, flag.ExitOnError)
	fs.String("defaults", "", "JSON defaults file applied before the other flags")
	fs.StringVar(&cfg.DatasetPath, "dataset", cfg.DatasetPath, "Baseline dataset file (.parquet or .csv)")
	fs.StringVar(&cfg.DBPath, "db-file", cfg.DBPath, "SQLite database file")
	fs.StringVar(&cfg.MigrationsDir, "migrations", cfg.MigrationsDir, "Migrations directory")
	fs.StringVar(&cfg.UpgradesPath, "upgrades-file", cfg.UpgradesPath, "Upgrades lookup JSON file")
	fs.Var(&states, "state", "State filter for the loadshape stage (repeatable; default all)")
	fs.Var(&upgrades, "upgrade", "Upgrade filter for the loadshape stage (repeatable; default all)")
	fs.IntVar(&cfg.FetchWorkers, "workers", cfg.FetchWorkers, "Concurrent loadshape downloads")
	fs.DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "Delay before retrying a failed download")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Override the timeseries bucket URL")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}
	if len(states) > 0 {
		cfg.States = states
	}
	if len(upgrades) > 0 {
		cfg.Upgrades = upgrades
	}

	store, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.MigrateUp(cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	runner := etl.NewRunner(cfg, store, nil, nil)
	if err := runner.Run(ctx, mode); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Fatalf("Aggregation interrupted after %v", time.Since(start).Round(time.Millisecond))
		}
		log.Fatalf("Aggregation failed: %v", err)
	}
	log.Printf("Aggregation complete in %v", time.Since(start).Round(time.Millisecond))
}

func runMigrate(args []string) {
	cfg := etl.DefaultConfig()
	down := false

	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	fs.StringVar(&cfg.DBPath, "db-file", cfg.DBPath, "SQLite database file")
	fs.StringVar(&cfg.MigrationsDir, "migrations", cfg.MigrationsDir, "Migrations directory")
	fs.BoolVar(&down, "down", false, "Roll back the most recent migration instead of applying pending ones")
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	store, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if down {
		err = store.MigrateDown(cfg.MigrationsDir)
	} else {
		err = store.MigrateUp(cfg.MigrationsDir)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	v, dirty, err := store.MigrateVersion(cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	log.Printf("Schema at version %d (dirty=%v)", v, dirty)
}
