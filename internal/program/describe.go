package program

import "github.com/claude/trainplan/internal/models"

// Plan is the resolved schedule for a days/duration pair, before any
// exercise is selected.
type Plan struct {
	DaysPerWeek       int                   `json:"days_per_week"`
	Split             models.SplitType      `json:"split"`
	SplitDescription  string                `json:"split_description"`
	Duration          models.DurationBucket `json:"duration"`
	KnownSchedule     bool                  `json:"known_schedule"`
	KnownDuration     bool                  `json:"known_duration"`
	Sessions          []Template            `json:"sessions"`
	ExpectedExercises int                   `json:"expected_exercises"`
}

// Describe resolves the split and bucket the engine would use and returns
// the templates it would fill.
func Describe(lib TemplateLibrary, days int, durationLabel string) Plan {
	if lib == nil {
		lib = StaticTemplates{}
	}
	split, knownSchedule := ResolveSplit(days, durationLabel)
	bucket, knownDuration := ResolveDuration(durationLabel)
	p := Plan{
		DaysPerWeek:      days,
		Split:            split,
		SplitDescription: split.Description(),
		Duration:         bucket,
		KnownSchedule:    knownSchedule,
		KnownDuration:    knownDuration,
		Sessions:         lib.Lookup(days, bucket, split),
	}
	for _, t := range p.Sessions {
		p.ExpectedExercises += t.ExpectedCount()
	}
	return p
}
