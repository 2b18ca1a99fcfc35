package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/export"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var q models.Questionnaire
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.svc.Generate(r.Context(), q, uid)
	if errors.Is(err, models.ErrInvalidQuestionnaire) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("generate error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	programs, err := s.svc.Programs(r.Context(), uid, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if programs == nil {
		programs = []storage.ProgramSummary{}
	}
	writeJSON(w, http.StatusOK, programs)
}

// loadProgram resolves the {id} parameter, writing the error response itself.
func (s *Server) loadProgram(w http.ResponseWriter, r *http.Request) (*storage.ProgramRecord, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return nil, false
	}
	rec, err := s.svc.Program(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return rec, true
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProgram(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExportProgram(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProgram(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteProgram(&buf, rec.Program, rec.Warnings); err != nil {
		s.log.Error("export error", "program_id", rec.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="program-%s.xlsx"`, rec.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	stats, err := s.svc.Stats(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days parameter required"})
		return
	}
	plan, err := s.svc.Template(r.Context(), days, r.URL.Query().Get("duration"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.ComplexityRules(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCatalogSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.CatalogSummary(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.svc.Exercise(r.Context(), chi.URLParam(r, "id"))
	if writeCatalogError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	q := intake.AlternativesQuery{
		Experience:  r.URL.Query().Get("experience"),
		Equipment:   listParam(r, "equipment"),
		Attachments: listParam(r, "attachments"),
		Specific:    listParam(r, "specific_equipment"),
	}
	alts, err := s.svc.Alternatives(r.Context(), chi.URLParam(r, "id"), q)
	if writeCatalogError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, alts)
}

func (s *Server) handleContraindications(w http.ResponseWriter, r *http.Request) {
	injuries, err := s.svc.Contraindications(r.Context(), chi.URLParam(r, "id"))
	if writeCatalogError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(injuries))
}

func (s *Server) handleMuscles(w http.ResponseWriter, r *http.Request) {
	muscles, err := s.svc.Muscles(r.Context())
	if writeCatalogError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(muscles))
}

func (s *Server) handleEquipment(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.EquipmentCategories(r.Context())
	if writeCatalogError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(categories))
}

func (s *Server) handleInjuries(w http.ResponseWriter, r *http.Request) {
	injuries, err := s.svc.InjuryTypes(r.Context())
	if writeCatalogError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(injuries))
}

// writeCatalogError writes the response for a failed catalog read and
// reports whether it did.
func writeCatalogError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return true
}

// listParam accepts both repeated and comma-separated query values.
func listParam(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
