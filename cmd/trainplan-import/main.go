package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/importer"
	"github.com/claude/trainplan/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	catalogPath := flag.String("path", "", "directory holding equipment, exercises and contraindications tables (required)")
	dryRun := flag.Bool("dry-run", false, "parse and validate without loading the catalog")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *catalogPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: trainplan-import -config config.yaml -path /path/to/catalog [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*catalogPath)
	if err != nil || !info.IsDir() {
		log.Error("catalog path does not exist or is not a directory", "path", *catalogPath)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: the catalog will not be written")
		stats, err := importer.New(nil, log, true).Import(ctx, *catalogPath)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		printStats(log, stats)
		return
	}

	var loader importer.Loader
	switch cfg.Catalog.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		version, err := storage.RunMigrations(dsn, "migrations")
		if err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied", "version", version)

		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		c, err := storage.NewCatalog(ctx, db)
		if err != nil {
			log.Error("failed to open postgres catalog", "error", err)
			os.Exit(1)
		}
		loader = c
	case config.DriverSQLite:
		s, err := catalog.OpenSQLite(ctx, cfg.Catalog.Path)
		if err != nil {
			log.Error("failed to open sqlite catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
		defer s.Close()
		loader = s
	default:
		log.Error("catalog driver has no persistent store", "driver", cfg.Catalog.Driver)
		os.Exit(1)
	}
	log.Info("catalog target opened", "driver", cfg.Catalog.Driver)

	stats, err := importer.New(loader, log, false).Import(ctx, *catalogPath)
	if err != nil {
		log.Error("import failed", "error", err)
		if stats != nil {
			printStats(log, stats)
		}
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"equipment", stats.Equipment,
		"exercises", stats.Exercises,
		"in_programme", stats.InProgramme,
		"contraindications", stats.Contraindications,
		"loaded", stats.Loaded,
	)
}
