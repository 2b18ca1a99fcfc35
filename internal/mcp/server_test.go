package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

func newTestHandlers() *handlers {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := catalog.DemoCatalog()
	gen := program.NewGenerator(program.NewEngine(c, log, program.WithRand(program.FirstChoice{})), log)
	svc := intake.NewService(intake.NewProvider(gen, storage.NewMemory(), log), c)
	return &handlers{ds: svc, log: log}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return text.Text
}

// TestGenerateThenGetProgram runs the generate and lookup tools against the
// local backend.
func TestGenerateThenGetProgram(t *testing.T) {
	h := newTestHandlers()
	ctx := WithUserID(context.Background(), 7)

	res, err := h.generateProgram(ctx, callTool(map[string]any{
		"days_per_week":    float64(4),
		"session_duration": "45-60 min",
		"experience":       "intermediate",
		"equipment":        []any{"barbells", "dumbbells", "pin_loaded"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("generate_program failed: %s", resultText(t, res))
	}
	var created intake.Result
	if err := json.Unmarshal([]byte(resultText(t, res)), &created); err != nil {
		t.Fatal(err)
	}
	if len(created.Program.Sessions) != 4 {
		t.Errorf("sessions = %d, want 4", len(created.Program.Sessions))
	}

	res, err = h.getProgram(ctx, callTool(map[string]any{"id": created.ProgramID.String()}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("get_program failed: %s", resultText(t, res))
	}

	res, _ = h.listPrograms(ctx, callTool(nil))
	var list []storage.ProgramSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("list_programs for user 7 = %d, want 1", len(list))
	}

	res, _ = h.listPrograms(WithUserID(context.Background(), 8), callTool(nil))
	if got := strings.TrimSpace(resultText(t, res)); got != "[]" {
		t.Errorf("list_programs for another user = %s, want []", got)
	}

	res, _ = h.getStats(ctx, callTool(nil))
	var stats storage.GenerationStats
	if err := json.Unmarshal([]byte(resultText(t, res)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalPrograms != 1 {
		t.Errorf("total_programs = %d, want 1", stats.TotalPrograms)
	}
}

// TestGenerateUnknownSchedule verifies unmapped days and a missing duration
// default to a medium full-body program.
func TestGenerateUnknownSchedule(t *testing.T) {
	h := newTestHandlers()
	res, err := h.generateProgram(context.Background(), callTool(map[string]any{"days_per_week": float64(12)}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("generate_program failed: %s", resultText(t, res))
	}
	var created intake.Result
	if err := json.Unmarshal([]byte(resultText(t, res)), &created); err != nil {
		t.Fatal(err)
	}
	if created.Program.Split != models.SplitFullBody || created.Program.Duration != models.DurationMedium {
		t.Errorf("program = %s/%s, want full_body/medium", created.Program.Split, created.Program.Duration)
	}
}

// TestToolErrors verifies bad arguments come back as tool errors, not
// protocol errors.
func TestToolErrors(t *testing.T) {
	h := newTestHandlers()
	ctx := context.Background()
	tests := []struct {
		name string
		call func() (*mcp.CallToolResult, error)
		want string
	}{
		{"generate missing days", func() (*mcp.CallToolResult, error) {
			return h.generateProgram(ctx, callTool(map[string]any{"session_duration": "45-60 min"}))
		}, "days_per_week"},
		{"generate blank goal", func() (*mcp.CallToolResult, error) {
			return h.generateProgram(ctx, callTool(map[string]any{"days_per_week": float64(3), "session_duration": "45-60 min", "goals": []any{""}}))
		}, "invalid questionnaire"},
		{"get bad uuid", func() (*mcp.CallToolResult, error) {
			return h.getProgram(ctx, callTool(map[string]any{"id": "x"}))
		}, "invalid program id"},
		{"get unknown program", func() (*mcp.CallToolResult, error) {
			return h.getProgram(ctx, callTool(map[string]any{"id": "8f14e45f-ceea-4e7a-9f3b-2d5c3b7a1e10"}))
		}, "program not found"},
		{"alternatives unknown exercise", func() (*mcp.CallToolResult, error) {
			return h.findAlternatives(ctx, callTool(map[string]any{"exercise_id": "EX999"}))
		}, "exercise not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.call()
			if err != nil {
				t.Fatalf("protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatal("IsError = false")
			}
			if got := resultText(t, res); !strings.Contains(got, tt.want) {
				t.Errorf("message = %q, want mention of %q", got, tt.want)
			}
		})
	}
}

func TestFindAlternativesAndTemplate(t *testing.T) {
	h := newTestHandlers()
	ctx := context.Background()

	res, _ := h.findAlternatives(ctx, callTool(map[string]any{
		"exercise_id": "EX030",
		"equipment":   []any{"bodyweight"},
	}))
	var alts intake.Alternatives
	if err := json.Unmarshal([]byte(resultText(t, res)), &alts); err != nil {
		t.Fatal(err)
	}
	if len(alts.Alternatives) != 1 || alts.Alternatives[0].ID != "EX034" {
		t.Errorf("alternatives = %+v, want EX034", alts.Alternatives)
	}

	res, _ = h.describeTemplate(ctx, callTool(map[string]any{"days_per_week": float64(2), "session_duration": "30-45 min"}))
	var plan program.Plan
	if err := json.Unmarshal([]byte(resultText(t, res)), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Split != "upper_lower" || len(plan.Sessions) != 2 {
		t.Errorf("plan = %s with %d sessions, want upper_lower with 2", plan.Split, len(plan.Sessions))
	}
}

func TestResources(t *testing.T) {
	h := newTestHandlers()
	var req mcp.ReadResourceRequest
	req.Params.URI = "trainplan://complexity_rules"

	contents, err := h.complexityRules(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	var rules map[string]program.ComplexityRule
	if err := json.Unmarshal([]byte(text.Text), &rules); err != nil {
		t.Fatal(err)
	}
	if len(rules) != 4 {
		t.Errorf("rules = %v, want 4 levels", rules)
	}

	req.Params.URI = "trainplan://catalog_summary"
	contents, err = h.catalogSummary(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got := contents[0].(mcp.TextResourceContents).URI; got != req.Params.URI {
		t.Errorf("URI = %q", got)
	}
}

// TestNewRegistersTools verifies the server lists every tool over JSON-RPC.
func TestNewRegistersTools(t *testing.T) {
	s := New(newTestHandlers().ds, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	resp := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"generate_program", "get_program", "list_programs", "find_alternatives", "describe_template", "get_stats"} {
		if !strings.Contains(string(data), `"name":"`+name+`"`) {
			t.Errorf("tool %s not listed", name)
		}
	}
}
