// Command trainplan-sim generates programs for randomly drawn questionnaires,
// grades each against the catalog and writes the results to a workbook.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"runtime"

	"github.com/claude/trainplan/internal/app"
	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/export"
	"github.com/claude/trainplan/internal/simulate"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	runs := flag.Int("runs", 1000, "number of simulated users")
	seed := flag.Int64("seed", 42, "questionnaire seed")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent generations")
	out := flag.String("out", "simulation.xlsx", "output workbook")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	backend, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open backend", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	sim := simulate.New(backend.Catalog, backend.Generator, log)
	report, err := sim.Run(ctx, simulate.Config{Runs: *runs, Seed: *seed, Workers: *workers})
	if err != nil {
		log.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Error("failed to create output", "path", *out, "error", err)
		os.Exit(1)
	}
	if err := export.WriteSimulation(f, report); err != nil {
		f.Close()
		log.Error("failed to write workbook", "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		log.Error("failed to close workbook", "error", err)
		os.Exit(1)
	}

	s := report.Summary
	log.Info("simulation complete",
		"runs", s.Runs,
		"successes", s.Successes,
		"success_rate", s.SuccessRate,
		"avg_fill_rate", s.AvgFillRate,
		"output", *out,
	)
}
