package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
)

// ErrTotalFailure means the engine could not place a single exercise. The
// caller substitutes a fallback program.
var ErrTotalFailure = errors.New("program generation produced no exercises")

// LowFillThreshold is the per-session fill percentage below which a
// low-fill warning is raised.
const LowFillThreshold = 75.0

// Result is a generated program and its diagnostics.
type Result struct {
	Program  models.Program   `json:"program"`
	Warnings []models.Warning `json:"warnings"`
	// FillRates holds one percentage per session, in session order.
	FillRates    []float64 `json:"fill_rates"`
	LowFill      bool      `json:"low_fill"`
	Repeats      bool      `json:"repeats"`
	FallbackUsed bool      `json:"fallback_used"`
}

// UniqueWarnings returns the warnings deduplicated by message.
func (r *Result) UniqueWarnings() []models.Warning {
	return models.UniqueWarnings(r.Warnings)
}

// Engine fills session templates from the catalog. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	catalog   catalog.Fetcher
	templates TemplateLibrary
	rules     ComplexityRules
	rand      Rand
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTemplates replaces the built-in template library.
func WithTemplates(t TemplateLibrary) Option {
	return func(e *Engine) { e.templates = t }
}

// WithRules replaces the default complexity rules.
func WithRules(r ComplexityRules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithRand sets the rep-range label source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rand = r }
}

// NewEngine returns an engine over c with the static templates, the default
// complexity rules and a fixed-seed Rand unless opts say otherwise.
func NewEngine(c catalog.Fetcher, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:   c,
		templates: StaticTemplates{},
		rules:     DefaultComplexityRules,
		rand:      NewRand(1),
		log:       log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds a program for q. Slots are filled strictly in template
// order since both the exclusion sets and the top-tier rule depend on what
// earlier slots accepted. It returns ErrTotalFailure, together with the
// partial result, when nothing could be placed.
func (e *Engine) Generate(ctx context.Context, q models.Questionnaire) (*Result, error) {
	split, known := ResolveSplit(q.DaysPerWeek, q.SessionDuration)
	if !known {
		e.log.Warn("unmapped days per week, defaulting to full body", "days", q.DaysPerWeek)
	}
	bucket, known := ResolveDuration(q.SessionDuration)
	if !known {
		e.log.Warn("unmapped session duration, defaulting to medium", "duration", q.SessionDuration)
	}

	templates := e.templates.Lookup(q.DaysPerWeek, bucket, split)
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no templates for %d days, %s, %s", ErrTotalFailure, q.DaysPerWeek, bucket, split)
	}

	rule := e.rules.For(models.ParseExperience(q.Experience))
	base := BaseConstraints(q, rule)
	goals := q.GoalText()

	res := &Result{
		Program: models.Program{
			Split:       split,
			DaysPerWeek: q.DaysPerWeek,
			Duration:    bucket,
			TotalWeeks:  models.TotalWeeks,
		},
	}
	if models.NeedsCableAttachment(q.Equipment, base.Attachments) {
		res.Warnings = append(res.Warnings, models.Warning{Kind: models.WarnCableAttachment})
	}

	excl := newExclusions()
	expected := make([]int, len(templates))
	for i, tmpl := range templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		excl.startSession()
		session := models.Session{Name: tmpl.Name}

		for j, slot := range tmpl.Slots {
			n := slot.Count
			if q.IsPriority(slot.Muscle) {
				n++
			}
			expected[i] += n

			c := base
			c.ExcludedIDs = excl.ids
			c.ExcludedNames = excl.names
			c.ExcludedCanonicals = excl.canonicals
			c.AllowTopTier = j == 0 && !excl.topTier && rule.MaxTopTierPerSession > 0

			picked, warnings := e.fillSlot(ctx, slot, n, c)
			res.Warnings = append(res.Warnings, warnings...)
			for _, ex := range picked {
				excl.accept(ex)
				session.Exercises = append(session.Exercises, e.prescribe(ex, goals))
			}
		}

		sort.SliceStable(session.Exercises, func(a, b int) bool {
			return session.Exercises[a].Complexity > session.Exercises[b].Complexity
		})
		res.Program.Sessions = append(res.Program.Sessions, session)
	}

	e.validate(res, expected)

	if res.Program.TotalExercises() == 0 {
		return res, ErrTotalFailure
	}
	e.log.Info("program generated",
		"split", split,
		"duration", bucket,
		"sessions", len(res.Program.Sessions),
		"exercises", res.Program.TotalExercises(),
		"warnings", len(res.Warnings),
		"fill_rates", res.FillRates,
	)
	return res, nil
}

// fillSlot fetches the slot's pool and runs the selector, relaxing the
// display-name exclusion when the strict pass comes up short.
func (e *Engine) fillSlot(ctx context.Context, slot Slot, n int, c Constraints) ([]catalog.Exercise, []models.Warning) {
	pool, err := e.catalog.Fetch(ctx, c.Filter(slot))
	if err != nil {
		e.log.Warn("catalog fetch failed, retrying with permissive constraints", "muscle", slot.Muscle, "error", err)
		pool, err = e.catalog.Fetch(ctx, e.permissiveFilter(slot.Muscle))
		if err != nil {
			e.log.Error("permissive catalog fetch failed", "muscle", slot.Muscle, "error", err)
			return nil, []models.Warning{{Kind: models.WarnNoExercises, Muscle: slot.Muscle}}
		}
	}
	if len(pool) == 0 {
		return nil, []models.Warning{{Kind: models.WarnNoExercises, Muscle: slot.Muscle}}
	}

	picked := Select(pool, n, c, false)
	if len(picked) >= n {
		return picked, nil
	}
	relaxed := Select(pool, n, c, true)
	if len(relaxed) > len(picked) {
		return relaxed, []models.Warning{{Kind: models.WarnExerciseRepeats, Muscle: slot.Muscle}}
	}
	return picked, []models.Warning{{
		Kind:      models.WarnInsufficient,
		Muscle:    slot.Muscle,
		Requested: n,
		Found:     len(picked),
	}}
}

// permissiveFilter is the one-shot retry after a catalog error: no pattern,
// beginner ceiling, the minimal free-weight equipment set.
func (e *Engine) permissiveFilter(muscle string) catalog.Filter {
	return catalog.Filter{
		Categories:     []string{models.CategoryBodyweight, models.CategoryDumbbells, models.CategoryBarbells},
		MaxComplexity:  e.rules.For(models.Beginner).MaxComplexity,
		ExcludeTopTier: true,
		PrimaryMuscle:  muscle,
		ProgrammeOnly:  true,
	}
}

func (e *Engine) prescribe(ex catalog.Exercise, goals string) models.ProgramExercise {
	equipment := ex.EquipmentName
	if equipment == "" {
		equipment = ex.EquipmentID1
	}
	return models.ProgramExercise{
		ExerciseID:    ex.ID,
		Name:          ex.DisplayName,
		Sets:          SetsPerExercise,
		RepRange:      RepRange(goals, ex.Rating, e.rand),
		RestSeconds:   RestSeconds(ex.Rating),
		PrimaryMuscle: ex.PrimaryMuscle,
		Equipment:     equipment,
		Complexity:    ex.Complexity,
	}
}

// validate runs the whole-program checks: emergency fill of empty sessions,
// fill rates and the derived flags.
func (e *Engine) validate(res *Result, expected []int) {
	sessions := res.Program.Sessions
	emergency := false
	for i := range sessions {
		if len(sessions[i].Exercises) > 0 {
			continue
		}
		e.log.Warn("session empty, using emergency exercises", "session", sessions[i].Name, "index", i)
		sessions[i].Exercises = EmergencyExercises(sessions[i].Name)
		res.Warnings = append(res.Warnings, models.Warning{
			Kind:   models.WarnEquipmentLimited,
			Muscle: models.EmergencyFallbackName,
		})
		emergency = true
	}
	// Emergency sets are fixed per session kind, so they bypass the
	// display-name exclusion and can repeat each other or earlier picks.
	if emergency && repeatsDisplayName(sessions) {
		res.Warnings = append(res.Warnings, models.Warning{
			Kind:   models.WarnExerciseRepeats,
			Muscle: models.EmergencyFallbackName,
		})
	}

	worst := 100.0
	res.FillRates = make([]float64, len(sessions))
	for i, s := range sessions {
		rate := 100.0
		if expected[i] > 0 {
			rate = float64(len(s.Exercises)) / float64(expected[i]) * 100
		}
		res.FillRates[i] = rate
		if rate < worst {
			worst = rate
		}
	}
	if worst < LowFillThreshold {
		res.LowFill = true
		res.Warnings = append(res.Warnings, models.Warning{Kind: models.WarnLowFillRate, Percentage: worst})
	}
	res.Repeats = models.HasWarning(res.Warnings, models.WarnExerciseRepeats)
}

func repeatsDisplayName(sessions []models.Session) bool {
	seen := make(map[string]bool)
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			if seen[ex.Name] {
				return true
			}
			seen[ex.Name] = true
		}
	}
	return false
}
