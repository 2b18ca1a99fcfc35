package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

const testAPIKey = "test-key"

const questionnaireJSON = `{
	"days_per_week": 3,
	"session_duration": "45-60 min",
	"experience": "intermediate",
	"equipment": ["barbells", "dumbbells", "bodyweight", "pin_loaded"]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := catalog.DemoCatalog()
	mem := storage.NewMemory()
	gen := program.NewGenerator(program.NewEngine(c, log, program.WithRand(program.FirstChoice{})), log)
	svc := intake.NewService(intake.NewProvider(gen, mem, log), c)
	return New(svc, mem, testAPIKey, log)
}

func do(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	info := decode[UserInfo](t, rec)
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	info := decode[UserInfo](t, rec)
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}

// TestCreateProgramRequiresAPIKey verifies generation is the one guarded write.
func TestCreateProgramRequiresAPIKey(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodPost, "/api/v1/programs", questionnaireJSON, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", rec.Code)
	}
	rec := do(t, s, http.MethodPost, "/api/v1/programs", questionnaireJSON, map[string]string{"X-API-Key": "wrong"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", rec.Code)
	}
}

// TestProgramLifecycle generates a program, then reads it back through every
// read endpoint.
func TestProgramLifecycle(t *testing.T) {
	s := newTestServer(t)
	key := map[string]string{"X-API-Key": testAPIKey}

	rec := do(t, s, http.MethodPost, "/api/v1/programs", questionnaireJSON, key)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	created := decode[intake.Result](t, rec)
	if created.ProgramID == uuid.Nil {
		t.Fatal("program_id is nil")
	}
	if created.Program.Split != models.SplitPushPullLegs || len(created.Program.Sessions) != 3 {
		t.Errorf("program = %s with %d sessions, want push_pull_legs with 3",
			created.Program.Split, len(created.Program.Sessions))
	}
	if created.FallbackUsed {
		t.Error("fallback used against the demo catalog")
	}

	rec = do(t, s, http.MethodGet, "/api/v1/programs", "", nil)
	list := decode[[]storage.ProgramSummary](t, rec)
	if len(list) != 1 || list[0].ID != created.ProgramID {
		t.Fatalf("list = %+v, want the created program", list)
	}

	path := "/api/v1/programs/" + created.ProgramID.String()
	rec = do(t, s, http.MethodGet, path, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	stored := decode[storage.ProgramRecord](t, rec)
	if diff := cmp.Diff(created.Program, stored.Program); diff != "" {
		t.Errorf("stored program mismatch (-created +stored):\n%s", diff)
	}
	if stored.Questionnaire.DaysPerWeek != 3 {
		t.Errorf("stored questionnaire days = %d, want 3", stored.Questionnaire.DaysPerWeek)
	}

	rec = do(t, s, http.MethodGet, path+"/export", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("content type = %q", got)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()
	if !slices.Contains(f.GetSheetList(), "Program") {
		t.Errorf("sheets = %v, want a Program sheet", f.GetSheetList())
	}

	rec = do(t, s, http.MethodGet, "/api/v1/stats", "", nil)
	stats := decode[storage.GenerationStats](t, rec)
	if stats.TotalPrograms != 1 || stats.TotalGenerations != 1 {
		t.Errorf("stats = %d programs, %d generations; want 1, 1", stats.TotalPrograms, stats.TotalGenerations)
	}
}

func TestCreateProgramBadRequest(t *testing.T) {
	s := newTestServer(t)
	key := map[string]string{"X-API-Key": testAPIKey}
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"days_per_week":`},
		{"blank equipment entry", `{"days_per_week": 3, "session_duration": "45-60 min", "equipment": ["dumbbells", ""]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/programs", tt.body, key)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestCreateProgramUnknownSchedule verifies unmapped schedules still generate.
func TestCreateProgramUnknownSchedule(t *testing.T) {
	s := newTestServer(t)
	key := map[string]string{"X-API-Key": testAPIKey}
	for _, body := range []string{
		`{"days_per_week": 9, "session_duration": "45-60 min"}`,
		`{"days_per_week": 3}`,
	} {
		rec := do(t, s, http.MethodPost, "/api/v1/programs", body, key)
		if rec.Code != http.StatusCreated {
			t.Errorf("POST %s status = %d, want 201; body %s", body, rec.Code, rec.Body.String())
		}
	}
}

func TestGetProgramErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/programs/not-a-uuid", http.StatusBadRequest},
		{"/api/v1/programs/" + uuid.NewString(), http.StatusNotFound},
		{"/api/v1/programs/" + uuid.NewString() + "/export", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := do(t, s, http.MethodGet, tt.path, "", nil); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/catalog/exercises/EX030", http.StatusOK},
		{"/api/v1/catalog/exercises/EX999", http.StatusNotFound},
		{"/api/v1/catalog/exercises/EX030/alternatives?equipment=bodyweight", http.StatusOK},
		{"/api/v1/catalog/exercises/EX999/alternatives", http.StatusNotFound},
		{"/api/v1/catalog/exercises/EX030/contraindications", http.StatusOK},
		{"/api/v1/catalog/muscles", http.StatusOK},
		{"/api/v1/catalog/equipment", http.StatusOK},
		{"/api/v1/catalog/injuries", http.StatusOK},
		{"/api/v1/catalog/summary", http.StatusOK},
		{"/api/v1/rules", http.StatusOK},
	}
	for _, tt := range tests {
		if rec := do(t, s, http.MethodGet, tt.path, "", nil); rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/v1/catalog/exercises/EX030/alternatives?equipment=bodyweight", "", nil)
	alts := decode[intake.Alternatives](t, rec)
	if len(alts.Alternatives) != 1 || alts.Alternatives[0].ID != "EX034" {
		t.Errorf("alternatives = %+v, want only EX034", alts.Alternatives)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/catalog/injuries", "", nil)
	if diff := cmp.Diff([]string{"Elbow", "Knee", "Lower Back", "Shoulder"}, decode[[]string](t, rec)); diff != "" {
		t.Errorf("injuries mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/templates?days=3&duration=45-60+min", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	plan := decode[program.Plan](t, rec)
	if plan.Split != models.SplitPushPullLegs || plan.ExpectedExercises != 16 {
		t.Errorf("plan = %s with %d exercises, want push_pull_legs with 16", plan.Split, plan.ExpectedExercises)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/templates", "", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing days: status = %d, want 400", rec.Code)
	}
}

// TestMetricsEndpoint verifies requests are counted by route pattern, so
// path parameters never become label values.
func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/catalog/exercises/EX030", "", nil)

	rec := do(t, s, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `route="/api/v1/catalog/exercises/{id}"`) {
		t.Error("metrics missing the exercise route pattern")
	}
	if strings.Contains(body, "EX030") {
		t.Error("metrics leaked a path parameter")
	}
}
