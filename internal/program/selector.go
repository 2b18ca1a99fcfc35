package program

import (
	"sort"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
)

// Constraints is everything one slot selection is bound by.
type Constraints struct {
	Categories  []string
	Specific    []string
	Attachments []string

	MaxComplexity int

	// ExcludedIDs is program-wide and never relaxed.
	ExcludedIDs map[string]bool
	// ExcludedNames is program-wide and relaxed on insufficiency.
	ExcludedNames map[string]bool
	// ExcludedCanonicals is session-wide and never relaxed.
	ExcludedCanonicals map[string]bool

	AllowTopTier        bool
	RequireTopTierFirst bool
	TopTierBudget       int
}

// BaseConstraints derives the program-wide constraints from an intake
// submission and the user's complexity rule.
func BaseConstraints(q models.Questionnaire, rule ComplexityRule) Constraints {
	return Constraints{
		Categories:          models.EquipmentCategories(q.Equipment),
		Specific:            q.SpecificEquipment,
		Attachments:         models.AttachmentNames(q.Attachments),
		MaxComplexity:       rule.MaxComplexity,
		RequireTopTierFirst: rule.TopTierMustBeFirst,
		TopTierBudget:       rule.MaxTopTierPerSession,
	}
}

// Filter renders the catalog part of the constraints for one slot.
func (c Constraints) Filter(slot Slot) catalog.Filter {
	return catalog.Filter{
		Categories:     c.Categories,
		Specific:       c.Specific,
		Attachments:    c.Attachments,
		MaxComplexity:  c.MaxComplexity,
		ExcludeTopTier: !c.AllowTopTier,
		PrimaryMuscle:  slot.Muscle,
		Pattern:        slot.Pattern,
		ProgrammeOnly:  true,
	}
}

// Select picks up to n exercises from pool. Hard exclusions always apply;
// the display-name exclusion is skipped when relax is set. Candidates are
// ranked by rating descending then display name, and at most one exercise per
// canonical movement is taken. When the top tier is required first, the best
// top-tier candidate is taken before anything else.
func Select(pool []catalog.Exercise, n int, c Constraints, relax bool) []catalog.Exercise {
	if n <= 0 {
		return nil
	}

	candidates := make([]catalog.Exercise, 0, len(pool))
	for _, ex := range pool {
		if c.ExcludedIDs[ex.ID] || c.ExcludedCanonicals[ex.CanonicalName] {
			continue
		}
		if !relax && c.ExcludedNames[ex.DisplayName] {
			continue
		}
		if ex.Complexity == catalog.TopTier && !c.AllowTopTier {
			continue
		}
		candidates = append(candidates, ex)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Rating != candidates[j].Rating {
			return candidates[i].Rating > candidates[j].Rating
		}
		return candidates[i].DisplayName < candidates[j].DisplayName
	})

	var (
		picked     []catalog.Exercise
		canonicals = make(map[string]bool)
		topTier    int
		taken      = make(map[string]bool)
	)
	accept := func(ex catalog.Exercise) {
		picked = append(picked, ex)
		canonicals[ex.CanonicalName] = true
		taken[ex.ID] = true
		if ex.Complexity == catalog.TopTier {
			topTier++
		}
	}

	if c.AllowTopTier && c.RequireTopTierFirst && c.TopTierBudget > 0 {
		for _, ex := range candidates {
			if ex.Complexity == catalog.TopTier {
				accept(ex)
				break
			}
		}
	}

	for _, ex := range candidates {
		if len(picked) >= n {
			break
		}
		if taken[ex.ID] || canonicals[ex.CanonicalName] {
			continue
		}
		if ex.Complexity == catalog.TopTier && topTier >= c.TopTierBudget {
			continue
		}
		accept(ex)
	}
	return picked
}

// exclusions accumulates what a generation run has already placed. The id
// and name sets live for the whole program; the canonical set is reset at
// every session.
type exclusions struct {
	ids        map[string]bool
	names      map[string]bool
	canonicals map[string]bool
	topTier    bool
}

func newExclusions() *exclusions {
	return &exclusions{
		ids:        make(map[string]bool),
		names:      make(map[string]bool),
		canonicals: make(map[string]bool),
	}
}

func (e *exclusions) startSession() {
	e.canonicals = make(map[string]bool)
	e.topTier = false
}

func (e *exclusions) accept(ex catalog.Exercise) {
	e.ids[ex.ID] = true
	e.names[ex.DisplayName] = true
	e.canonicals[ex.CanonicalName] = true
	if ex.Complexity == catalog.TopTier {
		e.topTier = true
	}
}
