package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuestionnaire is returned when an intake submission cannot be used at all.
var ErrInvalidQuestionnaire = errors.New("invalid questionnaire")

// Questionnaire is a user's intake submission.
type Questionnaire struct {
	DaysPerWeek       int      `json:"days_per_week"`
	SessionDuration   string   `json:"session_duration"`
	Experience        string   `json:"experience"`
	Equipment         []string `json:"equipment"`
	Attachments       []string `json:"attachments,omitempty"`
	SpecificEquipment []string `json:"specific_equipment,omitempty"`
	Injuries          []string `json:"injuries,omitempty"`
	PriorityMuscles   []string `json:"priority_muscles,omitempty"`
	Goals             []string `json:"goals,omitempty"`
}

// Validate rejects structurally broken submissions. Day counts and duration
// labels are never rejected; the resolver defaults whatever it does not know.
func (q Questionnaire) Validate() error {
	lists := []struct {
		field  string
		values []string
	}{
		{"equipment", q.Equipment},
		{"attachments", q.Attachments},
		{"specific_equipment", q.SpecificEquipment},
		{"injuries", q.Injuries},
		{"priority_muscles", q.PriorityMuscles},
		{"goals", q.Goals},
	}
	for _, l := range lists {
		for i, v := range l.values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: %s[%d] is blank", ErrInvalidQuestionnaire, l.field, i)
			}
		}
	}
	return nil
}

// GoalText joins all goal keys so rep-range rules can match goal combinations.
func (q Questionnaire) GoalText() string {
	return strings.Join(q.Goals, ",")
}

// IsPriority reports whether muscle was declared a priority muscle.
func (q Questionnaire) IsPriority(muscle string) bool {
	for _, m := range q.PriorityMuscles {
		if strings.EqualFold(m, muscle) {
			return true
		}
	}
	return false
}

// ExperienceLevel is the user's training history bucket.
type ExperienceLevel int

const (
	NoExperience ExperienceLevel = iota
	Beginner
	Intermediate
	Advanced
)

func (l ExperienceLevel) String() string {
	switch l {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Advanced:
		return "advanced"
	default:
		return "no_experience"
	}
}

// ParseExperience maps questionnaire labels, both the current keys and the
// older month-range keys, to a level. Unknown labels map to NoExperience.
func ParseExperience(label string) ExperienceLevel {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "beginner", "0_6_months":
		return Beginner
	case "intermediate", "6_months_2_years":
		return Intermediate
	case "advanced", "2_plus_years":
		return Advanced
	default:
		return NoExperience
	}
}

// Equipment category names as stored in the catalog.
const (
	CategoryBodyweight  = "Bodyweight"
	CategoryBarbells    = "Barbells"
	CategoryDumbbells   = "Dumbbells"
	CategoryKettlebells = "Kettlebells"
	CategoryCables      = "Cables"
	CategoryPinLoaded   = "Pin-Loaded Machines"
	CategoryPlateLoaded = "Plate-Loaded Machines"
	CategoryOther       = "Other"
	CategoryAttachment  = "Attachment"

	equipmentKeyCables = "cable_machines"
)

var equipmentKeys = map[string]string{
	"bodyweight":     CategoryBodyweight,
	"barbells":       CategoryBarbells,
	"dumbbells":      CategoryDumbbells,
	"kettlebells":    CategoryKettlebells,
	"cable_machines": CategoryCables,
	"pin_loaded":     CategoryPinLoaded,
	"plate_loaded":   CategoryPlateLoaded,
	"other":          CategoryOther,
}

// AllCategories lists every selectable equipment category in questionnaire order.
var AllCategories = []string{
	CategoryBodyweight, CategoryBarbells, CategoryDumbbells, CategoryKettlebells,
	CategoryCables, CategoryPinLoaded, CategoryPlateLoaded, CategoryOther,
}

var attachmentKeys = map[string]string{
	"straight_bar":    "Straight Bar",
	"rope":            "Rope",
	"d_handles":       "D-Handles",
	"ez_bar":          "EZ-Bar",
	"ez_bar_cable":    "EZ-Bar Cable",
	"ankle_strap":     "Ankle Strap",
	"resistance_band": "Resistance Band",
	"weight_belt":     "Weight Belt",
}

// CableAttachments are the attachments that make cable exercises usable.
var CableAttachments = []string{"Straight Bar", "Rope", "D-Handles", "EZ-Bar Cable"}

// EquipmentCategories maps questionnaire equipment keys to catalog categories.
// When no key is recognised every category is returned.
func EquipmentCategories(keys []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, k := range keys {
		cat, ok := equipmentKeys[strings.ToLower(strings.TrimSpace(k))]
		if !ok || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	if len(out) == 0 {
		return append([]string(nil), AllCategories...)
	}
	return out
}

// AttachmentNames maps questionnaire attachment keys to catalog equipment names.
// Unknown keys are dropped.
func AttachmentNames(keys []string) []string {
	var out []string
	for _, k := range keys {
		if name, ok := attachmentKeys[strings.ToLower(strings.TrimSpace(k))]; ok {
			out = append(out, name)
		}
	}
	return out
}

// NeedsCableAttachment reports whether cable machines were selected without
// any attachment that works on a cable stack.
func NeedsCableAttachment(equipment []string, attachments []string) bool {
	hasCables := false
	for _, k := range equipment {
		if strings.EqualFold(strings.TrimSpace(k), equipmentKeyCables) {
			hasCables = true
			break
		}
	}
	if !hasCables {
		return false
	}
	for _, a := range attachments {
		for _, c := range CableAttachments {
			if a == c {
				return false
			}
		}
	}
	return true
}
