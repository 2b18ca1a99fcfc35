package models

// SplitType is the weekly training split.
type SplitType string

const (
	SplitFullBody     SplitType = "full_body"
	SplitUpperLower   SplitType = "upper_lower"
	SplitPushPullLegs SplitType = "push_pull_legs"
)

func (s SplitType) Description() string {
	switch s {
	case SplitUpperLower:
		return "Upper/Lower"
	case SplitPushPullLegs:
		return "Push/Pull/Legs"
	default:
		return "Full Body"
	}
}

// DurationBucket is the coarse session length.
type DurationBucket string

const (
	DurationShort  DurationBucket = "short"
	DurationMedium DurationBucket = "medium"
	DurationLong   DurationBucket = "long"
)

// TotalWeeks is the fixed program length for every generation path.
const TotalWeeks = 8

// Program is a generated multi-week training program.
type Program struct {
	Split       SplitType      `json:"split"`
	DaysPerWeek int            `json:"days_per_week"`
	Duration    DurationBucket `json:"duration"`
	Sessions    []Session      `json:"sessions"`
	TotalWeeks  int            `json:"total_weeks"`
}

// TotalExercises counts exercises across all sessions.
func (p *Program) TotalExercises() int {
	n := 0
	for _, s := range p.Sessions {
		n += len(s.Exercises)
	}
	return n
}

// Session is one training day.
type Session struct {
	Name      string            `json:"name"`
	Exercises []ProgramExercise `json:"exercises"`
}

// ProgramExercise is a catalog exercise resolved into prescription form.
type ProgramExercise struct {
	ExerciseID    string `json:"exercise_id"`
	Name          string `json:"name"`
	Sets          int    `json:"sets"`
	RepRange      string `json:"rep_range"`
	RestSeconds   int    `json:"rest_seconds"`
	PrimaryMuscle string `json:"primary_muscle"`
	Equipment     string `json:"equipment"`
	Complexity    int    `json:"complexity"`
}
