package program

import (
	"context"
	"log/slog"

	"github.com/claude/trainplan/internal/models"
)

// Source produces a program with diagnostics. *Engine is the production
// implementation.
type Source interface {
	Generate(ctx context.Context, q models.Questionnaire) (*Result, error)
}

// Compile-time check: *Engine satisfies Source.
var _ Source = (*Engine)(nil)

// Generator runs a Source and substitutes the hand-authored fallback program
// when the source fails outright.
type Generator struct {
	source Source
	log    *slog.Logger
}

// NewGenerator wraps source with the hand-authored fallback programs.
func NewGenerator(source Source, log *slog.Logger) *Generator {
	return &Generator{source: source, log: log}
}

// Generate always returns a usable program unless ctx is done.
func (g *Generator) Generate(ctx context.Context, q models.Questionnaire) (*Result, error) {
	res, err := g.source.Generate(ctx, q)
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	g.log.Warn("generation failed, using fallback program",
		"days", q.DaysPerWeek,
		"duration", q.SessionDuration,
		"error", err,
	)
	out := &Result{
		Program:      Fallback(q.DaysPerWeek, q.SessionDuration),
		FallbackUsed: true,
	}
	if res != nil {
		out.Warnings = res.Warnings
	}
	out.FillRates = make([]float64, len(out.Program.Sessions))
	for i := range out.FillRates {
		out.FillRates[i] = 100
	}
	return out, nil
}

// Program is Generate without the diagnostics.
func (g *Generator) Program(ctx context.Context, q models.Questionnaire) (models.Program, error) {
	res, err := g.Generate(ctx, q)
	if err != nil {
		return models.Program{}, err
	}
	return res.Program, nil
}
