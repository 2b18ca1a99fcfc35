package program

import "github.com/claude/trainplan/internal/models"

// Slot is one muscle requirement within a session template.
type Slot struct {
	Muscle string `json:"muscle"`
	Count  int    `json:"count"`
	// Pattern optionally narrows the slot to canonical names containing it.
	Pattern string `json:"pattern,omitempty"`
}

// Template is the ordered slot list for one session.
type Template struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// ExpectedCount is the template's total exercise count before priority boosts.
func (t Template) ExpectedCount() int {
	n := 0
	for _, s := range t.Slots {
		n += s.Count
	}
	return n
}

// TemplateLibrary looks up the week's session templates.
type TemplateLibrary interface {
	Lookup(days int, bucket models.DurationBucket, split models.SplitType) []Template
}

// StaticTemplates is the built-in, immutable template library.
type StaticTemplates struct{}

// Compile-time check: StaticTemplates satisfies TemplateLibrary.
var _ TemplateLibrary = StaticTemplates{}

type templateKey struct {
	days   int
	bucket models.DurationBucket
}

func slots(pairs ...any) []Slot {
	out := make([]Slot, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Slot{Muscle: pairs[i].(string), Count: pairs[i+1].(int)})
	}
	return out
}

var (
	pushShort  = Template{"Push", slots("Chest", 1, "Shoulders", 2, "Triceps", 1)}
	pullShort  = Template{"Pull", slots("Back", 2, "Biceps", 2)}
	legsShort  = Template{"Legs", slots("Quads", 1, "Hamstrings", 1, "Glutes", 1, "Core", 1)}
	pushMedium = Template{"Push", slots("Chest", 2, "Shoulders", 2, "Triceps", 1)}
	pullMedium = Template{"Pull", slots("Back", 3, "Biceps", 2)}
	legsMedium = Template{"Legs", slots("Quads", 2, "Hamstrings", 2, "Glutes", 1, "Core", 1)}
	pushLong   = Template{"Push", slots("Chest", 3, "Shoulders", 3, "Triceps", 2)}
	pullLong   = Template{"Pull", slots("Back", 3, "Biceps", 3)}
	legsLong   = Template{"Legs", slots("Quads", 2, "Hamstrings", 2, "Glutes", 1, "Core", 1)}

	upperShort  = Template{"Upper", slots("Chest", 1, "Shoulders", 1, "Back", 1)}
	lowerShort  = Template{"Lower", slots("Quads", 1, "Hamstrings", 1, "Glutes", 1, "Core", 1)}
	upperMedium = Template{"Upper", slots("Chest", 2, "Shoulders", 2, "Back", 2)}
	lowerMedium = Template{"Lower", slots("Quads", 2, "Hamstrings", 2, "Glutes", 1, "Core", 1)}
	upperLong   = Template{"Upper", slots("Chest", 2, "Shoulders", 2, "Back", 2, "Triceps", 1, "Biceps", 1)}
	lowerLong   = Template{"Lower", slots("Quads", 2, "Hamstrings", 2, "Glutes", 1, "Core", 1)}

	fullBodyMedium = Template{"Full Body", slots("Chest", 1, "Shoulders", 1, "Back", 1, "Quads", 1, "Hamstrings", 1, "Glutes", 1, "Core", 1)}
	fullBodyLong   = Template{"Full Body", slots("Chest", 1, "Shoulders", 1, "Back", 1, "Biceps", 1, "Triceps", 1, "Quads", 1, "Hamstrings", 1, "Glutes", 1, "Core", 1)}
)

var pplByBucket = map[models.DurationBucket][]Template{
	models.DurationShort:  {pushShort, pullShort, legsShort},
	models.DurationMedium: {pushMedium, pullMedium, legsMedium},
	models.DurationLong:   {pushLong, pullLong, legsLong},
}

var upperLowerByBucket = map[models.DurationBucket][2]Template{
	models.DurationShort:  {upperShort, lowerShort},
	models.DurationMedium: {upperMedium, lowerMedium},
	models.DurationLong:   {upperLong, lowerLong},
}

// Single-session weeks get their own full-body shape.
var oneDay = map[models.DurationBucket][]Template{
	models.DurationShort:  {{"Full Body", slots("Chest", 1, "Back", 1, "Shoulders", 1, "Quads", 1, "Hamstrings", 1, "Core", 1)}},
	models.DurationMedium: {{"Full Body", slots("Chest", 1, "Back", 2, "Shoulders", 1, "Quads", 1, "Hamstrings", 1, "Glutes", 1, "Core", 1)}},
	models.DurationLong:   {{"Full Body", slots("Chest", 2, "Back", 2, "Shoulders", 1, "Biceps", 1, "Triceps", 1, "Quads", 1, "Hamstrings", 1, "Glutes", 1, "Core", 1)}},
}

var fullBody = map[models.DurationBucket][]Template{
	models.DurationMedium: {fullBodyMedium, fullBodyMedium},
	models.DurationLong:   {fullBodyLong, fullBodyLong},
}

var upperLower = map[templateKey][]Template{
	{2, models.DurationShort}: {
		{"Upper", slots("Chest", 1, "Shoulders", 1, "Back", 1)},
		{"Lower", slots("Quads", 2, "Hamstrings", 1, "Glutes", 1, "Core", 1)},
	},
	{4, models.DurationShort}:  {upperShort, lowerShort, upperShort, lowerShort},
	{4, models.DurationMedium}: {upperMedium, lowerMedium, upperMedium, lowerMedium},
	{4, models.DurationLong}:   {upperLong, lowerLong, upperLong, lowerLong},
}

// Lookup returns the session templates for a week. Five and six day weeks are
// hybrids and are resolved before the split. A nil result means no template
// exists for the combination.
func (StaticTemplates) Lookup(days int, bucket models.DurationBucket, split models.SplitType) []Template {
	switch days {
	case 1:
		return clone(oneDay[bucket])
	case 5:
		ul := upperLowerByBucket[bucket]
		return clone(append(append([]Template(nil), pplByBucket[bucket]...), ul[0], ul[1]))
	case 6:
		ppl := pplByBucket[bucket]
		return clone(append(append([]Template(nil), ppl...), ppl...))
	}

	switch split {
	case models.SplitUpperLower:
		return clone(upperLower[templateKey{days, bucket}])
	case models.SplitPushPullLegs:
		return clone(pplByBucket[bucket])
	default:
		if bucket == models.DurationShort {
			bucket = models.DurationMedium
		}
		return clone(fullBody[bucket])
	}
}

// clone deep-copies templates so callers can never mutate the shared tables.
func clone(ts []Template) []Template {
	if ts == nil {
		return nil
	}
	out := make([]Template, len(ts))
	for i, t := range ts {
		out[i] = Template{Name: t.Name, Slots: append([]Slot(nil), t.Slots...)}
	}
	return out
}
