package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

// DataSource abstracts the backend for MCP tools. Both *intake.Service (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Generate(ctx context.Context, q models.Questionnaire, userID int) (*intake.Result, error)
	Program(ctx context.Context, id uuid.UUID) (*storage.ProgramRecord, error)
	Programs(ctx context.Context, userID, limit int) ([]storage.ProgramSummary, error)
	Stats(ctx context.Context, userID int) (*storage.GenerationStats, error)
	Exercise(ctx context.Context, id string) (*catalog.Exercise, error)
	Alternatives(ctx context.Context, id string, q intake.AlternativesQuery) (*intake.Alternatives, error)
	Template(ctx context.Context, days int, duration string) (*program.Plan, error)
	ComplexityRules(ctx context.Context) (map[string]program.ComplexityRule, error)
	CatalogSummary(ctx context.Context) (*intake.CatalogSummary, error)
}

// Compile-time check: *intake.Service satisfies DataSource.
var _ DataSource = (*intake.Service)(nil)
