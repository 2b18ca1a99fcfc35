package catalog

import (
	"sort"
	"strings"
)

// Filter is the predicate shape every store supports. Injuries are never part
// of it: contraindications are surfaced as metadata only.
type Filter struct {
	// Categories, Specific and Attachments are resolved against the equipment
	// table into an allowed id set. When all three are empty and
	// EquipmentIDs is nil, no equipment filtering happens.
	Categories  []string
	Specific    []string
	Attachments []string
	// EquipmentIDs, when non-nil, is used instead of resolving names.
	EquipmentIDs []string

	MaxComplexity  int
	ExcludeTopTier bool

	PrimaryMuscle string
	CanonicalName string
	ExcludeIDs    []string
	ProgrammeOnly bool

	// Pattern matches a case-insensitive substring of the canonical name.
	Pattern string
}

func (f Filter) filtersEquipment() bool {
	return f.EquipmentIDs != nil || len(f.Categories) > 0 || len(f.Specific) > 0 || len(f.Attachments) > 0
}

// AllowedEquipment returns the equipment ids the filter admits, or nil when
// the filter does not restrict equipment.
func (f Filter) AllowedEquipment(equipment []Equipment) []string {
	if !f.filtersEquipment() {
		return nil
	}
	if f.EquipmentIDs != nil {
		return f.EquipmentIDs
	}
	return ResolveEquipmentIDs(equipment, f.Categories, f.Specific, f.Attachments)
}

// ResolveEquipmentIDs maps questionnaire selections to equipment ids.
// A category contributes its base item (the row whose name equals the
// category); specific names and attachment names contribute the rows with
// that name in any category. The result is sorted.
func ResolveEquipmentIDs(equipment []Equipment, categories, specific, attachments []string) []string {
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	names := make(map[string]bool, len(specific)+len(attachments))
	for _, n := range specific {
		names[n] = true
	}
	for _, n := range attachments {
		names[n] = true
	}

	ids := make(map[string]bool)
	for _, eq := range equipment {
		if want[eq.Category] && eq.Name == eq.Category {
			ids[eq.ID] = true
		}
		if names[eq.Name] {
			ids[eq.ID] = true
		}
	}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AdmittedTiers lists the complexity tiers a ceiling admits. Ceilings are
// inclusive and additive; any ceiling above 2 admits every tier.
func AdmittedTiers(ceiling int, excludeTopTier bool) []int {
	top := ceiling
	if ceiling > 2 {
		top = TopTier
	}
	if top < 0 {
		top = 0
	}
	tiers := make([]int, 0, top+1)
	for t := 0; t <= top; t++ {
		if excludeTopTier && t == TopTier {
			continue
		}
		tiers = append(tiers, t)
	}
	return tiers
}

// Admits reports whether tier passes the ceiling.
func Admits(ceiling int, excludeTopTier bool, tier int) bool {
	for _, t := range AdmittedTiers(ceiling, excludeTopTier) {
		if t == tier {
			return true
		}
	}
	return false
}

// Matches evaluates the filter against a single exercise. allowed is the
// output of AllowedEquipment.
func (f Filter) Matches(ex Exercise, allowed []string) bool {
	if f.ProgrammeOnly && !ex.InProgramme {
		return false
	}
	if f.CanonicalName != "" && ex.CanonicalName != f.CanonicalName {
		return false
	}
	if f.PrimaryMuscle != "" && ex.PrimaryMuscle != f.PrimaryMuscle {
		return false
	}
	if f.Pattern != "" && !strings.Contains(strings.ToLower(ex.CanonicalName), strings.ToLower(f.Pattern)) {
		return false
	}
	if allowed != nil {
		if !contains(allowed, ex.EquipmentID1) {
			return false
		}
		if ex.EquipmentID2 != "" && !contains(allowed, ex.EquipmentID2) {
			return false
		}
	}
	if !Admits(f.MaxComplexity, f.ExcludeTopTier, ex.Complexity) {
		return false
	}
	return !contains(f.ExcludeIDs, ex.ID)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
