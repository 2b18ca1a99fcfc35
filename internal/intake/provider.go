// Package intake turns questionnaires into stored programs: it validates the
// submission, consults the result cache, runs the generator, persists the
// program and its generation log, and announces it.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/claude/trainplan/internal/cache"
	"github.com/claude/trainplan/internal/events"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/observability"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

// Result is what a caller gets back for one submission.
type Result struct {
	ProgramID    uuid.UUID        `json:"program_id"`
	Program      models.Program   `json:"program"`
	Warnings     []models.Warning `json:"warnings"`
	FillRates    []float64        `json:"fill_rates"`
	LowFill      bool             `json:"low_fill"`
	Repeats      bool             `json:"repeats"`
	FallbackUsed bool             `json:"fallback_used"`
	CacheHit     bool             `json:"cache_hit"`
}

// Store is the persistence the provider needs. *storage.DB implements it.
type Store interface {
	InsertProgram(ctx context.Context, rec storage.ProgramRecord) (uuid.UUID, error)
	InsertGenerationLog(ctx context.Context, log storage.GenerationLog) (int64, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*storage.ProgramRecord, error)
	ListPrograms(ctx context.Context, userID, limit int) ([]storage.ProgramSummary, error)
	GetGenerationStats(ctx context.Context, userID int) (*storage.GenerationStats, error)
}

var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*storage.Memory)(nil)
)

// Provider handles intake submissions.
type Provider struct {
	source    program.Source
	store     Store
	cache     cache.Cache
	publisher events.Publisher
	log       *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Provider)

// WithCache enables result caching.
func WithCache(c cache.Cache) Option {
	return func(p *Provider) { p.cache = c }
}

// WithPublisher enables event publishing.
func WithPublisher(pub events.Publisher) Option {
	return func(p *Provider) { p.publisher = pub }
}

// NewProvider creates a provider. Cache and publisher default to no-ops.
func NewProvider(source program.Source, store Store, log *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		source:    source,
		store:     store,
		cache:     cache.Nop{},
		publisher: events.Nop{},
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate builds, stores and announces a program for userID.
func (p *Provider) Generate(ctx context.Context, q models.Questionnaire, userID int) (*Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "intake.Generate", trace.WithAttributes(
		attribute.Int("user_id", userID),
		attribute.Int("days_per_week", q.DaysPerWeek),
		attribute.String("session_duration", q.SessionDuration),
		attribute.String("experience", q.Experience),
	))
	defer span.End()
	start := time.Now()

	if err := q.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	key := cache.Fingerprint(q)
	res, hit := p.cached(ctx, key)
	if !hit {
		var err error
		res, err = p.source.Generate(ctx, q)
		if err != nil {
			p.recordFailure(ctx, q, userID, start, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("generating program: %w", err)
		}
		// Fallback programs are not cached so the next request retries the engine.
		if !res.FallbackUsed {
			if err := p.cache.Set(ctx, key, res); err != nil {
				p.log.Warn("caching program failed", "error", err)
			}
		}
	}

	warnings := res.UniqueWarnings()
	id, err := p.store.InsertProgram(ctx, storage.ProgramRecord{
		UserID:        userID,
		Questionnaire: q,
		Program:       res.Program,
		Warnings:      warnings,
		LowFill:       res.LowFill,
		Repeats:       res.Repeats,
		FallbackUsed:  res.FallbackUsed,
	})
	if err != nil {
		p.recordFailure(ctx, q, userID, start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("storing program: %w", err)
	}

	status := storage.StatusSuccess
	if res.FallbackUsed {
		status = storage.StatusFallback
	}
	elapsed := time.Since(start)
	durationMs := int(elapsed.Milliseconds())
	if _, err := p.store.InsertGenerationLog(ctx, storage.GenerationLog{
		UserID:       userID,
		ProgramID:    &id,
		Status:       status,
		Split:        string(res.Program.Split),
		DaysPerWeek:  q.DaysPerWeek,
		Duration:     string(res.Program.Duration),
		Sessions:     len(res.Program.Sessions),
		Exercises:    res.Program.TotalExercises(),
		Warnings:     len(warnings),
		FallbackUsed: res.FallbackUsed,
		CacheHit:     hit,
		DurationMs:   &durationMs,
	}); err != nil {
		p.log.Error("writing generation log", "error", err, "program_id", id)
	}

	kinds := make([]string, len(warnings))
	for i, w := range warnings {
		kinds[i] = string(w.Kind)
	}
	if err := p.publisher.PublishProgramGenerated(ctx, events.ProgramGenerated{
		ProgramID:    id,
		UserID:       userID,
		Split:        string(res.Program.Split),
		DaysPerWeek:  res.Program.DaysPerWeek,
		Duration:     string(res.Program.Duration),
		Exercises:    res.Program.TotalExercises(),
		Warnings:     kinds,
		LowFill:      res.LowFill,
		Repeats:      res.Repeats,
		FallbackUsed: res.FallbackUsed,
		CacheHit:     hit,
	}); err != nil {
		p.log.Warn("publishing program event failed", "error", err, "program_id", id)
	}

	observability.RecordGeneration(status, elapsed, warnings, res.FillRates)
	span.SetAttributes(
		attribute.String("program_id", id.String()),
		attribute.String("split", string(res.Program.Split)),
		attribute.Int("exercises", res.Program.TotalExercises()),
		attribute.Bool("fallback_used", res.FallbackUsed),
		attribute.Bool("cache_hit", hit),
	)
	p.log.Info("program stored",
		"program_id", id,
		"user_id", userID,
		"status", status,
		"cache_hit", hit,
		"warnings", len(warnings),
		"duration_ms", durationMs,
	)

	return &Result{
		ProgramID:    id,
		Program:      res.Program,
		Warnings:     warnings,
		FillRates:    res.FillRates,
		LowFill:      res.LowFill,
		Repeats:      res.Repeats,
		FallbackUsed: res.FallbackUsed,
		CacheHit:     hit,
	}, nil
}

func (p *Provider) cached(ctx context.Context, key string) (*program.Result, bool) {
	res, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		observability.RecordCacheLookup("error")
		p.log.Warn("reading program cache failed", "error", err)
		return nil, false
	case res == nil:
		observability.RecordCacheLookup("miss")
		return nil, false
	default:
		observability.RecordCacheLookup("hit")
		return res, true
	}
}

func (p *Provider) recordFailure(ctx context.Context, q models.Questionnaire, userID int, start time.Time, cause error) {
	elapsed := time.Since(start)
	observability.RecordGeneration(storage.StatusError, elapsed, nil, nil)
	if errors.Is(cause, context.Canceled) {
		return
	}
	durationMs := int(elapsed.Milliseconds())
	msg := cause.Error()
	if _, err := p.store.InsertGenerationLog(context.WithoutCancel(ctx), storage.GenerationLog{
		UserID:       userID,
		Status:       storage.StatusError,
		DaysPerWeek:  q.DaysPerWeek,
		DurationMs:   &durationMs,
		ErrorMessage: &msg,
	}); err != nil {
		p.log.Error("writing generation log", "error", err)
	}
}

// Program returns a stored program. storage.ErrNotFound is passed through.
func (p *Provider) Program(ctx context.Context, id uuid.UUID) (*storage.ProgramRecord, error) {
	return p.store.GetProgram(ctx, id)
}

// Programs lists a user's programs, newest first.
func (p *Provider) Programs(ctx context.Context, userID, limit int) ([]storage.ProgramSummary, error) {
	return p.store.ListPrograms(ctx, userID, limit)
}

// Stats returns the user's generation statistics.
func (p *Provider) Stats(ctx context.Context, userID int) (*storage.GenerationStats, error) {
	return p.store.GetGenerationStats(ctx, userID)
}
