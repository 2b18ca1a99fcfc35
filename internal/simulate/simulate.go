package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
)

var (
	experienceOptions = []string{"no_experience", "beginner", "intermediate", "advanced"}
	durationOptions   = []string{program.DurationLabelShort, program.DurationLabelMedium, program.DurationLabelLong}
	goalOptions       = []string{"build_muscle", "get_stronger", "tone_up"}
	equipmentOptions  = []string{"bodyweight", "barbells", "dumbbells", "kettlebells", "cable_machines", "pin_loaded", "plate_loaded", "other"}
	attachmentOptions = []string{"straight_bar", "rope", "d_handles", "ez_bar_cable", "ankle_strap"}
	specificOptions   = []string{"Pull-Up Bar", "Dip Bars", "Flat Bench", "EZ-Bar"}
	priorityOptions   = []string{"Chest", "Back", "Shoulders", "Biceps", "Triceps", "Quads", "Hamstrings", "Glutes"}
)

// Config controls a simulation run.
type Config struct {
	Runs    int
	Seed    int64
	Workers int
}

// Row is one simulated user.
type Row struct {
	Run           int                  `json:"run"`
	Questionnaire models.Questionnaire `json:"questionnaire"`
	Split         models.SplitType     `json:"split"`
	Status        Status               `json:"status"`
	Details       string               `json:"details"`
	SlotsRequired int                  `json:"slots_required"`
	SlotsFilled   int                  `json:"slots_filled"`
	FillRate      float64              `json:"fill_rate"`
	Exercises     int                  `json:"exercises"`
	Warnings      int                  `json:"warnings"`
	FallbackUsed  bool                 `json:"fallback_used"`
	Muscles       []string             `json:"failing_muscles,omitempty"`
}

// MuscleCount is how often a muscle caused a failure.
type MuscleCount struct {
	Muscle string `json:"muscle"`
	Count  int    `json:"count"`
}

// Summary aggregates the rows of a run.
type Summary struct {
	Runs           int            `json:"runs"`
	Successes      int            `json:"successes"`
	SuccessRate    float64        `json:"success_rate"`
	AvgFillRate    float64        `json:"avg_fill_rate"`
	StatusCounts   map[Status]int `json:"status_counts"`
	FailingMuscles []MuscleCount  `json:"failing_muscles"`
}

// Report is the outcome of Run.
type Report struct {
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// Simulator grades generator output against the catalog it was built from.
type Simulator struct {
	catalog   catalog.Fetcher
	source    program.Source
	templates program.TemplateLibrary
	rules     program.ComplexityRules
	log       *slog.Logger
}

// New returns a simulator that runs source and grades its programs against c.
func New(c catalog.Fetcher, source program.Source, log *slog.Logger) *Simulator {
	return &Simulator{
		catalog:   c,
		source:    source,
		templates: program.StaticTemplates{},
		rules:     program.DefaultComplexityRules,
		log:       log,
	}
}

// Questionnaires draws n random submissions. The sequence depends only on
// seed.
func Questionnaires(seed int64, n int) []models.Questionnaire {
	rng := rand.New(rand.NewSource(seed))
	subset := func(options []string) []string {
		var out []string
		for _, o := range options {
			if rng.Intn(2) == 0 {
				out = append(out, o)
			}
		}
		return out
	}

	out := make([]models.Questionnaire, n)
	for i := range out {
		q := models.Questionnaire{
			Experience:      experienceOptions[rng.Intn(len(experienceOptions))],
			DaysPerWeek:     1 + rng.Intn(6),
			SessionDuration: durationOptions[rng.Intn(len(durationOptions))],
			Goals:           []string{goalOptions[rng.Intn(len(goalOptions))]},
			Equipment:       subset(equipmentOptions),
		}
		if len(q.Equipment) == 0 {
			q.Equipment = []string{"bodyweight"}
		}
		for _, e := range q.Equipment {
			if e == "cable_machines" {
				q.Attachments = subset(attachmentOptions)
			}
		}
		q.SpecificEquipment = subset(specificOptions)
		if rng.Intn(10) < 3 {
			q.PriorityMuscles = []string{priorityOptions[rng.Intn(len(priorityOptions))]}
		}
		out[i] = q
	}
	return out
}

// Run generates and grades cfg.Runs programs concurrently.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", cfg.Runs)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	qs := Questionnaires(cfg.Seed, cfg.Runs)
	rows := make([]Row, len(qs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, q := range qs {
		g.Go(func() error {
			row, err := s.runOne(gctx, q)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			row.Run = i + 1
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Rows: rows, Summary: Summarize(rows)}
	s.log.Info("simulation complete",
		"runs", report.Summary.Runs,
		"success_rate", report.Summary.SuccessRate,
		"avg_fill_rate", report.Summary.AvgFillRate,
	)
	return report, nil
}

func (s *Simulator) runOne(ctx context.Context, q models.Questionnaire) (Row, error) {
	res, err := s.source.Generate(ctx, q)
	if err != nil {
		return Row{}, fmt.Errorf("generating program: %w", err)
	}

	checks, err := s.checks(ctx, q, res.Program)
	if err != nil {
		return Row{}, err
	}
	v := Validate(checks)
	return Row{
		Questionnaire: q,
		Split:         res.Program.Split,
		Status:        v.Status,
		Details:       v.Details,
		SlotsRequired: v.Required,
		SlotsFilled:   v.Filled,
		FillRate:      v.FillRate,
		Exercises:     res.Program.TotalExercises(),
		Warnings:      len(res.UniqueWarnings()),
		FallbackUsed:  res.FallbackUsed,
		Muscles:       v.Muscles,
	}, nil
}

// checks lines the program up with the templates it should have been built
// from and sizes each slot's catalog pool.
func (s *Simulator) checks(ctx context.Context, q models.Questionnaire, p models.Program) ([]SessionCheck, error) {
	split, _ := program.ResolveSplit(q.DaysPerWeek, q.SessionDuration)
	bucket, _ := program.ResolveDuration(q.SessionDuration)
	templates := s.templates.Lookup(q.DaysPerWeek, bucket, split)
	base := program.BaseConstraints(q, s.rules.For(models.ParseExperience(q.Experience)))

	pools := make(map[program.Slot]int)
	out := make([]SessionCheck, len(templates))
	for i, tmpl := range templates {
		filled := make(map[string]int)
		if i < len(p.Sessions) {
			for _, ex := range p.Sessions[i].Exercises {
				filled[ex.PrimaryMuscle]++
			}
		}

		check := SessionCheck{Name: tmpl.Name}
		for _, slot := range tmpl.Slots {
			key := program.Slot{Muscle: slot.Muscle, Pattern: slot.Pattern}
			pool, ok := pools[key]
			if !ok {
				exercises, err := s.catalog.Fetch(ctx, base.Filter(slot))
				if err != nil {
					return nil, fmt.Errorf("sizing %s pool: %w", slot.Muscle, err)
				}
				pool = len(exercises)
				pools[key] = pool
			}

			required := slot.Count
			if q.IsPriority(slot.Muscle) {
				required++
			}
			f := min(filled[slot.Muscle], required)
			filled[slot.Muscle] -= f
			check.Slots = append(check.Slots, SlotCheck{
				Muscle:   slot.Muscle,
				Required: required,
				Filled:   f,
				Pool:     pool,
			})
		}
		out[i] = check
	}
	return out, nil
}

// Summarize aggregates rows. At most ten failing muscles are reported, most
// frequent first.
func Summarize(rows []Row) Summary {
	sum := Summary{Runs: len(rows), StatusCounts: make(map[Status]int)}
	muscles := make(map[string]int)
	var fill float64
	for _, r := range rows {
		sum.StatusCounts[r.Status]++
		fill += r.FillRate
		if r.Status == StatusSuccess {
			sum.Successes++
			continue
		}
		for _, m := range r.Muscles {
			muscles[m]++
		}
	}
	if len(rows) > 0 {
		sum.SuccessRate = float64(sum.Successes) / float64(len(rows)) * 100
		sum.AvgFillRate = fill / float64(len(rows))
	}

	for m, n := range muscles {
		sum.FailingMuscles = append(sum.FailingMuscles, MuscleCount{Muscle: m, Count: n})
	}
	sort.Slice(sum.FailingMuscles, func(i, j int) bool {
		a, b := sum.FailingMuscles[i], sum.FailingMuscles[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Muscle < b.Muscle
	})
	if len(sum.FailingMuscles) > 10 {
		sum.FailingMuscles = sum.FailingMuscles[:10]
	}
	return sum
}
