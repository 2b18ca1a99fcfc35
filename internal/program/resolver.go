// Package program turns a questionnaire into a training program. It holds the
// split resolver, the session template library, the complexity rules, the
// exercise selector and the engine that drives them, plus the hand-authored
// fallback programs used when the engine produces nothing.
package program

import (
	"strings"

	"github.com/claude/trainplan/internal/models"
)

// Session duration labels offered by the questionnaire.
const (
	DurationLabelShort  = "30-45 min"
	DurationLabelMedium = "45-60 min"
	DurationLabelLong   = "60-90 min"
)

// ResolveSplit maps days per week to a split. known is false when days is
// outside 1-6 and the full-body default was applied.
func ResolveSplit(days int, durationLabel string) (split models.SplitType, known bool) {
	switch days {
	case 1:
		return models.SplitFullBody, true
	case 2:
		if isShortLabel(durationLabel) {
			return models.SplitUpperLower, true
		}
		return models.SplitFullBody, true
	case 3:
		return models.SplitPushPullLegs, true
	case 4:
		return models.SplitUpperLower, true
	case 5, 6:
		return models.SplitPushPullLegs, true
	default:
		return models.SplitFullBody, false
	}
}

// ResolveDuration maps a duration label to a bucket. known is false when the
// label was not recognised and the medium default was applied.
func ResolveDuration(label string) (bucket models.DurationBucket, known bool) {
	switch normalizeLabel(label) {
	case DurationLabelShort:
		return models.DurationShort, true
	case DurationLabelMedium:
		return models.DurationMedium, true
	case DurationLabelLong:
		return models.DurationLong, true
	default:
		return models.DurationMedium, false
	}
}

// DurationLabel is the inverse of ResolveDuration.
func DurationLabel(b models.DurationBucket) string {
	switch b {
	case models.DurationShort:
		return DurationLabelShort
	case models.DurationLong:
		return DurationLabelLong
	default:
		return DurationLabelMedium
	}
}

func isShortLabel(label string) bool {
	return normalizeLabel(label) == DurationLabelShort
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
