package program

import (
	"strconv"

	"github.com/claude/trainplan/internal/models"
)

type fixedExercise struct {
	name, reps string
	rest       int
	muscle     string
	equipment  string
}

type fixedSession struct {
	name      string
	exercises []fixedExercise
}

type fixedProgram struct {
	split    models.SplitType
	days     int
	duration models.DurationBucket
	sessions []fixedSession
}

var (
	benchPress       = fixedExercise{"Bench Press", "8-10", 120, "Chest", "Barbell"}
	bentOverRow      = fixedExercise{"Bent Over Row", "8-10", 120, "Back", "Barbell"}
	dbOverheadPress  = fixedExercise{"Overhead Press", "8-10", 90, "Shoulders", "Dumbbell"}
	bbOverheadPress  = fixedExercise{"Overhead Press", "8-10", 90, "Shoulders", "Barbell"}
	dumbbellCurl     = fixedExercise{"Dumbbell Curl", "10-12", 60, "Biceps", "Dumbbell"}
	tricepDip        = fixedExercise{"Tricep Dip", "8-12", 60, "Triceps", "Bodyweight"}
	tricepDipLong    = fixedExercise{"Tricep Dip", "8-12", 90, "Triceps", "Bodyweight"}
	squat            = fixedExercise{"Squat", "8-10", 150, "Quads", "Barbell"}
	romanianDeadlift = fixedExercise{"Romanian Deadlift", "8-10", 120, "Hamstrings", "Barbell"}
	rdlVolume        = fixedExercise{"Romanian Deadlift", "10-12", 120, "Hamstrings", "Barbell"}
	bulgarianSplit   = fixedExercise{"Bulgarian Split Squat", "10-12", 90, "Quads", "Dumbbell"}
	legCurl          = fixedExercise{"Leg Curl", "12-15", 60, "Hamstrings", "Machine"}
	legCurlVolume    = fixedExercise{"Leg Curl", "10-12", 90, "Hamstrings", "Machine"}
	legCurlLong      = fixedExercise{"Leg Curl", "12-15", 90, "Hamstrings", "Machine"}
	calfRaise        = fixedExercise{"Calf Raise", "15-20", 60, "Calves", "Machine"}
	tricepExtension  = fixedExercise{"Tricep Extension", "10-12", 60, "Triceps", "Cable"}
	deadlift         = fixedExercise{"Deadlift", "6-8", 180, "Back", "Barbell"}
	inclineDBPress   = fixedExercise{"Incline Dumbbell Press", "8-10", 120, "Chest", "Dumbbell"}
	latPulldown      = fixedExercise{"Lat Pulldown", "10-12", 90, "Back", "Cable"}
	legPress         = fixedExercise{"Leg Press", "10-12", 120, "Quads", "Machine"}
	lateralRaise     = fixedExercise{"Lateral Raise", "12-15", 60, "Shoulders", "Dumbbell"}
	facePull         = fixedExercise{"Face Pull", "15-20", 60, "Shoulders", "Cable"}
	pullUp           = fixedExercise{"Pull-up", "6-10", 120, "Back", "Bodyweight"}
	barbellCurl      = fixedExercise{"Barbell Curl", "8-10", 60, "Biceps", "Barbell"}
	hammerCurl       = fixedExercise{"Hammer Curl", "10-12", 60, "Biceps", "Dumbbell"}
	dbShoulderPress  = fixedExercise{"Dumbbell Shoulder Press", "10-12", 90, "Shoulders", "Dumbbell"}
	cableRow         = fixedExercise{"Cable Row", "10-12", 90, "Back", "Cable"}
	frontSquat       = fixedExercise{"Front Squat", "8-10", 150, "Quads", "Barbell"}
	stiffLegDeadlift = fixedExercise{"Stiff Leg Deadlift", "10-12", 120, "Hamstrings", "Barbell"}
	gluteBridge      = fixedExercise{"Glute Bridge", "12-15", 90, "Glutes", "Barbell"}
	legExtension     = fixedExercise{"Leg Extension", "12-15", 60, "Quads", "Machine"}
	inclineBench     = fixedExercise{"Incline Bench Press", "8-10", 120, "Chest", "Barbell"}
	seatedCalfRaise  = fixedExercise{"Seated Calf Raise", "15-20", 60, "Calves", "Machine"}
)

var upperLower2DayShort = fixedProgram{
	split: models.SplitUpperLower, days: 2, duration: models.DurationShort,
	sessions: []fixedSession{
		{"Upper Body", []fixedExercise{benchPress, bentOverRow, dbOverheadPress, dumbbellCurl, tricepDip}},
		{"Lower Body", []fixedExercise{squat, romanianDeadlift, bulgarianSplit, legCurl, calfRaise}},
	},
}

var fullBody2DayMedium = fixedProgram{
	split: models.SplitFullBody, days: 2, duration: models.DurationMedium,
	sessions: []fixedSession{
		{"Full Body A", []fixedExercise{squat, benchPress, bentOverRow, dbOverheadPress, rdlVolume, dumbbellCurl, tricepExtension}},
		{"Full Body B", []fixedExercise{deadlift, inclineDBPress, latPulldown, legPress, legCurlVolume, lateralRaise, facePull}},
	},
}

var pushPullLegs3Day = fixedProgram{
	split: models.SplitPushPullLegs, days: 3, duration: models.DurationMedium,
	sessions: []fixedSession{
		{"Push", []fixedExercise{benchPress, inclineDBPress, bbOverheadPress, lateralRaise, tricepDipLong, tricepExtension}},
		{"Pull", []fixedExercise{deadlift, pullUp, bentOverRow, latPulldown, barbellCurl, hammerCurl}},
		{"Legs", []fixedExercise{squat, romanianDeadlift, legPress, legCurlVolume, bulgarianSplit, calfRaise}},
	},
}

var upperLower4Day = fixedProgram{
	split: models.SplitUpperLower, days: 4, duration: models.DurationMedium,
	sessions: []fixedSession{
		{"Upper A", []fixedExercise{benchPress, bentOverRow, dbOverheadPress, latPulldown, dumbbellCurl}},
		{"Lower A", []fixedExercise{squat, romanianDeadlift, legPress, legCurlLong, calfRaise}},
		{"Upper B", []fixedExercise{inclineDBPress, pullUp, dbShoulderPress, cableRow, tricepExtension}},
		{"Lower B", []fixedExercise{frontSquat, stiffLegDeadlift, bulgarianSplit, gluteBridge, legExtension}},
	},
}

var pushPullLegs5Day = fixedProgram{
	split: models.SplitPushPullLegs, days: 5, duration: models.DurationMedium,
	sessions: []fixedSession{
		{"Push", []fixedExercise{benchPress, inclineDBPress, bbOverheadPress, lateralRaise, tricepDipLong}},
		{"Pull", []fixedExercise{deadlift, pullUp, bentOverRow, facePull, barbellCurl}},
		{"Legs", []fixedExercise{squat, romanianDeadlift, legPress, legCurlVolume, calfRaise}},
		{"Upper", []fixedExercise{inclineBench, cableRow, dbShoulderPress, hammerCurl, tricepExtension}},
		{"Lower", []fixedExercise{frontSquat, stiffLegDeadlift, bulgarianSplit, gluteBridge, seatedCalfRaise}},
	},
}

var fallbackPrograms = map[string]fixedProgram{
	"2day-" + DurationLabelShort:  upperLower2DayShort,
	"2day-" + DurationLabelMedium: fullBody2DayMedium,
	"2day-" + DurationLabelLong:   fullBody2DayMedium,
	"3day-" + DurationLabelShort:  pushPullLegs3Day,
	"3day-" + DurationLabelMedium: pushPullLegs3Day,
	"3day-" + DurationLabelLong:   pushPullLegs3Day,
	"4day-" + DurationLabelShort:  upperLower4Day,
	"4day-" + DurationLabelMedium: upperLower4Day,
	"4day-" + DurationLabelLong:   upperLower4Day,
	"5day-" + DurationLabelShort:  pushPullLegs5Day,
	"5day-" + DurationLabelMedium: pushPullLegs5Day,
	"5day-" + DurationLabelLong:   pushPullLegs5Day,
}

// FallbackKey is the lookup key for the hand-authored programs.
func FallbackKey(days int, durationLabel string) string {
	return strconv.Itoa(days) + "day-" + normalizeLabel(durationLabel)
}

// Fallback returns the hand-authored program for a schedule. Unknown
// schedules get the three-day push/pull/legs program.
func Fallback(days int, durationLabel string) models.Program {
	fp, ok := fallbackPrograms[FallbackKey(days, durationLabel)]
	if !ok {
		fp = pushPullLegs3Day
	}

	p := models.Program{
		Split:       fp.split,
		DaysPerWeek: fp.days,
		Duration:    fp.duration,
		TotalWeeks:  models.TotalWeeks,
		Sessions:    make([]models.Session, len(fp.sessions)),
	}
	id := 0
	for i, fs := range fp.sessions {
		s := models.Session{Name: fs.name, Exercises: make([]models.ProgramExercise, len(fs.exercises))}
		for j, fe := range fs.exercises {
			id++
			s.Exercises[j] = models.ProgramExercise{
				ExerciseID:    strconv.Itoa(id),
				Name:          fe.name,
				Sets:          SetsPerExercise,
				RepRange:      fe.reps,
				RestSeconds:   fe.rest,
				PrimaryMuscle: fe.muscle,
				Equipment:     fe.equipment,
			}
		}
		p.Sessions[i] = s
	}
	return p
}
