// Package app assembles the generation backend from configuration. Every
// binary that generates or serves programs builds it the same way.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/trainplan/internal/cache"
	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/events"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

// UserStore maps logins to user ids.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// Backend is the assembled generation stack.
type Backend struct {
	Service   *intake.Service
	Catalog   catalog.Store
	Generator *program.Generator
	Users     UserStore
	DB        *storage.DB // nil unless database.driver is postgres

	closers []func() error
}

// Open connects storage, the catalog and the optional cache and broker.
// Migrations are the caller's responsibility.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	b := &Backend{}
	backend, err := b.open(ctx, cfg, log)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return backend, nil
}

func (b *Backend) open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	var (
		store intake.Store
		err   error
	)
	if cfg.Database.UsesPostgres() {
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting database: %w", err)
		}
		b.addCloser(func() error { db.Close(); return nil })
		b.DB, store, b.Users = db, db, db
		log.Info("database connected")
	} else {
		mem := storage.NewMemory()
		store, b.Users = mem, mem
		log.Warn("using in-memory program storage; programs are lost on exit")
	}

	if b.Catalog, err = b.openCatalog(ctx, cfg.Catalog); err != nil {
		return nil, err
	}
	log.Info("catalog opened", "driver", cfg.Catalog.Driver, "path", cfg.Catalog.Path)

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := program.NewEngine(b.Catalog, log, program.WithRand(program.NewRand(seed)))
	b.Generator = program.NewGenerator(engine, log)

	var opts []intake.Option
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.TTL, log)
		if err != nil {
			return nil, fmt.Errorf("connecting redis: %w", err)
		}
		b.addCloser(rc.Close)
		opts = append(opts, intake.WithCache(rc))
		log.Info("program cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}
	if cfg.Kafka.Enabled {
		pub := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		b.addCloser(pub.Close)
		opts = append(opts, intake.WithPublisher(pub))
		log.Info("event publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	b.Service = intake.NewService(intake.NewProvider(b.Generator, store, log, opts...), b.Catalog)
	return b, nil
}

func (b *Backend) openCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return catalog.DemoCatalog(), nil
	case config.DriverPostgres:
		if b.DB == nil {
			return nil, errors.New("postgres catalog needs a postgres database")
		}
		c, err := storage.NewCatalog(ctx, b.DB)
		if err != nil {
			return nil, fmt.Errorf("opening postgres catalog: %w", err)
		}
		return c, nil
	default:
		s, err := catalog.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite catalog %s: %w", cfg.Path, err)
		}
		b.addCloser(s.Close)
		return s, nil
	}
}

func (b *Backend) addCloser(fn func() error) {
	b.closers = append(b.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}
