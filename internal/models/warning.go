package models

import (
	"encoding/json"
	"fmt"
)

// WarningKind tags a generation diagnostic.
type WarningKind string

const (
	WarnNoExercises      WarningKind = "no_exercises_for_muscle"
	WarnInsufficient     WarningKind = "insufficient_exercises"
	WarnEquipmentLimited WarningKind = "equipment_limited_selection"
	WarnLowFillRate      WarningKind = "low_fill_rate"
	WarnExerciseRepeats  WarningKind = "exercise_repeats"
	WarnCableAttachment  WarningKind = "cable_attachment_missing"
)

// EmergencyFallbackName is the muscle label carried by emergency-fallback warnings.
const EmergencyFallbackName = "Emergency Fallback"

// Warning is a non-blocking diagnostic emitted during generation.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Muscle     string      `json:"muscle,omitempty"`
	Requested  int         `json:"requested,omitempty"`
	Found      int         `json:"found,omitempty"`
	Percentage float64     `json:"percentage,omitempty"`
}

// Message renders the user-facing text. Warnings with equal messages are
// shown once.
func (w Warning) Message() string {
	switch w.Kind {
	case WarnNoExercises:
		return fmt.Sprintf("No exercises available for %s with your equipment.", w.Muscle)
	case WarnInsufficient:
		return fmt.Sprintf("Only %d of %d %s exercises could be found.", w.Found, w.Requested, w.Muscle)
	case WarnEquipmentLimited:
		return fmt.Sprintf("Selection for %s was limited by available equipment.", w.Muscle)
	case WarnLowFillRate:
		return fmt.Sprintf("Some sessions are only %.0f%% filled. Adding equipment would improve your programme.", w.Percentage)
	case WarnExerciseRepeats:
		return fmt.Sprintf("Some %s exercises repeat across sessions due to limited options.", w.Muscle)
	case WarnCableAttachment:
		return "You selected cable machines but no cable attachments. Some cable exercises may be unavailable."
	default:
		return string(w.Kind)
	}
}

func (w Warning) String() string { return w.Message() }

// MarshalJSON includes the rendered message next to the structured fields.
func (w Warning) MarshalJSON() ([]byte, error) {
	type plain Warning
	return json.Marshal(struct {
		plain
		Message string `json:"message"`
	}{plain(w), w.Message()})
}

// UniqueWarnings drops warnings whose message was already seen, keeping order.
func UniqueWarnings(warnings []Warning) []Warning {
	seen := make(map[string]bool, len(warnings))
	var out []Warning
	for _, w := range warnings {
		msg := w.Message()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		out = append(out, w)
	}
	return out
}

// HasWarning reports whether any warning has the given kind.
func HasWarning(warnings []Warning, kind WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
