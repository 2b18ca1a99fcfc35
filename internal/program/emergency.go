package program

import (
	"strings"

	"github.com/claude/trainplan/internal/models"
)

type emergencyExercise struct {
	name, muscle, reps string
}

// Matched in order against the lower-cased session name.
var emergencySets = []struct {
	match     string
	exercises []emergencyExercise
}{
	{"push", []emergencyExercise{
		{"Push-ups", "Chest", "8-12"},
		{"Pike Push-ups", "Shoulders", "8-12"},
	}},
	{"pull", []emergencyExercise{
		{"Pull-ups (or Assisted)", "Back", "8-12"},
		{"Inverted Rows", "Back", "8-12"},
	}},
	{"leg", []emergencyExercise{
		{"Bodyweight Squats", "Quads", "8-12"},
		{"Lunges", "Quads", "8-12"},
	}},
	{"upper", []emergencyExercise{
		{"Push-ups", "Chest", "8-12"},
		{"Pike Push-ups", "Shoulders", "8-12"},
		{"Pull-ups (or Assisted)", "Back", "8-12"},
	}},
	{"lower", []emergencyExercise{
		{"Bodyweight Squats", "Quads", "8-12"},
		{"Lunges", "Quads", "8-12"},
		{"Glute Bridges", "Glutes", "8-12"},
	}},
}

var emergencyDefault = []emergencyExercise{
	{"Push-ups", "Chest", "8-12"},
	{"Bodyweight Squats", "Quads", "8-12"},
	{"Plank", "Core", "30-60 sec"},
}

// EmergencyExercises returns the bodyweight stand-ins for an empty session.
// They sit at the lowest complexity tier.
func EmergencyExercises(sessionName string) []models.ProgramExercise {
	name := strings.ToLower(sessionName)
	set := emergencyDefault
	for _, s := range emergencySets {
		if strings.Contains(name, s.match) {
			set = s.exercises
			break
		}
	}

	out := make([]models.ProgramExercise, len(set))
	for i, e := range set {
		out[i] = models.ProgramExercise{
			ExerciseID:    emergencyID(e.name),
			Name:          e.name,
			Sets:          SetsPerExercise,
			RepRange:      e.reps,
			RestSeconds:   90,
			PrimaryMuscle: e.muscle,
			Equipment:     "Bodyweight",
			Complexity:    0,
		}
	}
	return out
}

func emergencyID(name string) string {
	return "emergency_" + strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
