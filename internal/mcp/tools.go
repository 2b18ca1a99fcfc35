package mcp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

var durationLabels = []string{program.DurationLabelShort, program.DurationLabelMedium, program.DurationLabelLong}

// --- Tool definitions ---

var toolGenerateProgram = mcp.NewTool("generate_program",
	mcp.WithDescription("Generate and store an 8-week training program from intake answers. Returns the program id, sessions with sets/reps/rest per exercise, and any warnings about limited equipment or low fill."),
	mcp.WithNumber("days_per_week", mcp.Required(), mcp.Description("Training days per week (1-6; other values get a full-body program)")),
	mcp.WithString("session_duration", mcp.Description("Session length. Unknown or missing values fall back to 45-60 min."), mcp.Enum(durationLabels...)),
	mcp.WithString("experience", mcp.Description("Training experience. Defaults to no experience."), mcp.Enum("no_experience", "beginner", "intermediate", "advanced")),
	mcp.WithArray("equipment", mcp.WithStringItems(), mcp.Description("Equipment keys: bodyweight, barbells, dumbbells, kettlebells, cable_machines, pin_loaded, plate_loaded, other. Empty means a full gym.")),
	mcp.WithArray("attachments", mcp.WithStringItems(), mcp.Description("Cable attachment keys (e.g. rope, straight_bar, d_handles, ez_bar_cable)")),
	mcp.WithArray("specific_equipment", mcp.WithStringItems(), mcp.Description("Extra equipment names (e.g. 'Pull-Up Bar', 'Flat Bench')")),
	mcp.WithArray("injuries", mcp.WithStringItems(), mcp.Description("Injury types. Recorded with the program; contraindications are reported, not filtered.")),
	mcp.WithArray("priority_muscles", mcp.WithStringItems(), mcp.Description("Muscles that get one extra exercise per slot (e.g. Chest, Glutes)")),
	mcp.WithArray("goals", mcp.WithStringItems(), mcp.Description("Goal keys such as build_muscle, get_stronger, lose_fat")),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Fetch a stored program with the questionnaire that produced it and its warnings."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Program UUID")),
)

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List the user's stored programs, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum programs to return. Defaults to 20.")),
)

var toolFindAlternatives = mcp.NewTool("find_alternatives",
	mcp.WithDescription("Find programme exercises that train the same movement as the given exercise, optionally limited to an experience level and equipment. Also lists injuries the movement may aggravate."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Catalog exercise id")),
	mcp.WithString("experience", mcp.Description("Limit complexity to this experience level"), mcp.Enum("no_experience", "beginner", "intermediate", "advanced")),
	mcp.WithArray("equipment", mcp.WithStringItems(), mcp.Description("Equipment keys available")),
	mcp.WithArray("attachments", mcp.WithStringItems(), mcp.Description("Cable attachment keys available")),
)

var toolDescribeTemplate = mcp.NewTool("describe_template",
	mcp.WithDescription("Show the split, duration bucket and per-session muscle slots a schedule resolves to, without generating anything."),
	mcp.WithNumber("days_per_week", mcp.Required(), mcp.Description("Training days per week")),
	mcp.WithString("session_duration", mcp.Description("Session length. Unknown values fall back to 45-60 min."), mcp.Enum(durationLabels...)),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Generation statistics for the user: program counts, fallback and error counts, cache hits, average generation time, and per-split breakdown."),
)

// --- Tool handlers ---

func (h *handlers) generateProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := req.RequireInt("days_per_week")
	if err != nil {
		return mcp.NewToolResultError("days_per_week parameter is required"), nil
	}
	duration := req.GetString("session_duration", "")

	q := models.Questionnaire{
		DaysPerWeek:       days,
		SessionDuration:   duration,
		Experience:        req.GetString("experience", ""),
		Equipment:         req.GetStringSlice("equipment", nil),
		Attachments:       req.GetStringSlice("attachments", nil),
		SpecificEquipment: req.GetStringSlice("specific_equipment", nil),
		Injuries:          req.GetStringSlice("injuries", nil),
		PriorityMuscles:   req.GetStringSlice("priority_muscles", nil),
		Goals:             req.GetStringSlice("goals", nil),
	}

	res, err := h.ds.Generate(ctx, q, UserIDFromContext(ctx))
	if errors.Is(err, models.ErrInvalidQuestionnaire) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		h.log.Error("mcp generate_program", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(res)
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid program id: " + raw), nil
	}

	rec, err := h.ds.Program(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("program not found: " + raw), nil
	}
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(rec)
}

func (h *handlers) listPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)
	programs, err := h.ds.Programs(ctx, UserIDFromContext(ctx), limit)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if programs == nil {
		programs = []storage.ProgramSummary{}
	}
	return jsonResult(programs)
}

func (h *handlers) findAlternatives(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	alts, err := h.ds.Alternatives(ctx, id, intake.AlternativesQuery{
		Experience:  req.GetString("experience", ""),
		Equipment:   req.GetStringSlice("equipment", nil),
		Attachments: req.GetStringSlice("attachments", nil),
	})
	if errors.Is(err, catalog.ErrNotFound) {
		return mcp.NewToolResultError("exercise not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp find_alternatives", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(alts)
}

func (h *handlers) describeTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := req.RequireInt("days_per_week")
	if err != nil {
		return mcp.NewToolResultError("days_per_week parameter is required"), nil
	}
	plan, err := h.ds.Template(ctx, days, req.GetString("session_duration", program.DurationLabelMedium))
	if err != nil {
		h.log.Error("mcp describe_template", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.Stats(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(stats)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
