// Package catalog holds the exercise catalog model, its filter contract and
// the stores that serve it (in-memory, SQLite and, via internal/storage, Postgres).
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TopTier is the highest complexity tier. Its admission is governed per
// session by the complexity rules.
const TopTier = 4

// Exercise is one catalog row.
type Exercise struct {
	ID              string `json:"exercise_id"`
	CanonicalName   string `json:"canonical_name"`
	DisplayName     string `json:"display_name"`
	EquipmentID1    string `json:"equipment_id_1"`
	EquipmentID2    string `json:"equipment_id_2,omitempty"`
	Complexity      int    `json:"complexity"`
	PrimaryMuscle   string `json:"primary_muscle"`
	SecondaryMuscle string `json:"secondary_muscle,omitempty"`
	Instructions    string `json:"instructions,omitempty"`
	InProgramme     bool   `json:"is_in_programme"`
	Rating          int    `json:"canonical_rating"`
	// EquipmentName is the display name of EquipmentID1, filled by the stores.
	EquipmentName string `json:"equipment_name,omitempty"`
}

// Equipment is one row of the equipment table.
type Equipment struct {
	ID       string `json:"equipment_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Contraindication links a canonical movement to an injury it may aggravate.
type Contraindication struct {
	CanonicalName string `json:"canonical_name"`
	InjuryType    string `json:"injury_type"`
}

// ParseComplexity converts a stored complexity label to its tier.
// "All" (any case) and the empty string are tier 0.
func ParseComplexity(label string) (int, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "all") {
		return 0, nil
	}
	n, err := strconv.Atoi(label)
	if err != nil || n < 0 || n > TopTier {
		return 0, fmt.Errorf("invalid complexity %q", label)
	}
	return n, nil
}

// ComplexityLabel is the inverse of ParseComplexity.
func ComplexityLabel(tier int) string {
	if tier <= 0 {
		return "All"
	}
	return strconv.Itoa(tier)
}

// SortByComplexity orders exercises by tier descending, keeping the input
// order for equal tiers.
func SortByComplexity(exercises []Exercise) {
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].Complexity > exercises[j].Complexity
	})
}
