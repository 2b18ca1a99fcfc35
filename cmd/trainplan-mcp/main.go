// Command trainplan-mcp serves the trainplan MCP tools over stdio. With
// -server it proxies a running trainplan instance; otherwise it opens the
// backend described by -config in process.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/trainplan/internal/app"
	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/mcp"
	"github.com/claude/trainplan/internal/observability"
	"github.com/claude/trainplan/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "base URL of a trainplan server (remote mode)")
	apiKey := flag.String("api-key", os.Getenv("TRAINPLAN_AUTH_API_KEY"), "API key for program generation (remote mode)")
	userID := flag.Int("user", 1, "user id programs are stored under (local mode)")
	flag.Parse()

	// stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("proxying trainplan server", "url", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		shutdownTracing, err := observability.InitTracing(ctx, log, observability.TracingConfig{
			Enabled:     cfg.Tracing.Enabled,
			ServiceName: "trainplan-mcp",
			SampleRatio: cfg.Tracing.SampleRatio,
			Output:      os.Stderr,
		})
		if err != nil {
			log.Error("tracing init failed", "error", err)
			os.Exit(1)
		}
		defer shutdownTracing(context.Background())

		if cfg.Database.UsesPostgres() {
			if _, err := storage.RunMigrations(cfg.Database.DSN(), "migrations"); err != nil {
				log.Error("migration failed", "error", err)
				os.Exit(1)
			}
		}
		backend, err := app.Open(ctx, cfg, log)
		if err != nil {
			log.Error("failed to open backend", "error", err)
			os.Exit(1)
		}
		defer backend.Close()
		ds = backend.Service
	}

	s := mcp.New(ds, Version, log)
	uid := *userID
	err := mcpserver.ServeStdio(s, mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}
