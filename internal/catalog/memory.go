package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process catalog used for tests, simulations and the
// "memory" catalog driver.
type MemoryStore struct {
	mu        sync.RWMutex
	exercises []Exercise
	equipment []Equipment
	contra    []Contraindication
}

// Compile-time check: *MemoryStore satisfies Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store from catalog rows. Equipment names are
// resolved onto the exercises.
func NewMemoryStore(equipment []Equipment, exercises []Exercise, contra []Contraindication) *MemoryStore {
	s := &MemoryStore{}
	s.Replace(equipment, exercises, contra)
	return s
}

// Replace swaps the whole catalog atomically.
func (s *MemoryStore) Replace(equipment []Equipment, exercises []Exercise, contra []Contraindication) {
	names := make(map[string]string, len(equipment))
	for _, eq := range equipment {
		names[eq.ID] = eq.Name
	}
	rows := make([]Exercise, len(exercises))
	for i, ex := range exercises {
		if ex.EquipmentName == "" {
			ex.EquipmentName = names[ex.EquipmentID1]
		}
		rows[i] = ex
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises = rows
	s.equipment = append([]Equipment(nil), equipment...)
	s.contra = append([]Contraindication(nil), contra...)
}

// Load is Replace in the importer's loader shape.
func (s *MemoryStore) Load(_ context.Context, equipment []Equipment, exercises []Exercise, contra []Contraindication) error {
	s.Replace(equipment, exercises, contra)
	return nil
}

// Fetch returns matching exercises, tier descending.
func (s *MemoryStore) Fetch(_ context.Context, f Filter) ([]Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := f.AllowedEquipment(s.equipment)
	var out []Exercise
	for _, ex := range s.exercises {
		if f.Matches(ex, allowed) {
			out = append(out, ex)
		}
	}
	SortByComplexity(out)
	return out, nil
}

// FetchByID returns ErrNotFound for unknown ids.
func (s *MemoryStore) FetchByID(_ context.Context, id string) (*Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ex := range s.exercises {
		if ex.ID == id {
			ex := ex
			return &ex, nil
		}
	}
	return nil, ErrNotFound
}

// FetchContraindications returns the sorted injury types for a movement.
func (s *MemoryStore) FetchContraindications(_ context.Context, canonicalName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, c := range s.contra {
		if c.CanonicalName == canonicalName {
			out = append(out, c.InjuryType)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Muscles(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.exercises, func(ex Exercise) string {
		if !ex.InProgramme {
			return ""
		}
		return ex.PrimaryMuscle
	}), nil
}

func (s *MemoryStore) CanonicalNames(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return distinct(s.exercises, func(ex Exercise) string {
		if !ex.InProgramme {
			return ""
		}
		return ex.CanonicalName
	}), nil
}

// EquipmentCategories lists categories used by at least one programme exercise.
func (s *MemoryStore) EquipmentCategories(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat := make(map[string]string, len(s.equipment))
	for _, eq := range s.equipment {
		cat[eq.ID] = eq.Category
	}
	return distinct(s.exercises, func(ex Exercise) string {
		if !ex.InProgramme {
			return ""
		}
		return cat[ex.EquipmentID1]
	}), nil
}

func (s *MemoryStore) InjuryTypes(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.contra {
		if !seen[c.InjuryType] {
			seen[c.InjuryType] = true
			out = append(out, c.InjuryType)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Equipment returns a copy of the equipment table.
func (s *MemoryStore) Equipment() []Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Equipment(nil), s.equipment...)
}

func distinct(exercises []Exercise, key func(Exercise) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range exercises {
		k := key(ex)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
