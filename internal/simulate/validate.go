// Package simulate runs the generator over many random questionnaires and
// grades each program against its session templates.
package simulate

import (
	"fmt"
	"strings"
)

// Status grades one simulated program.
type Status string

const (
	StatusSuccess       Status = "SUCCESS"
	StatusZeroExercises Status = "ERR_ZERO_EXERCISES"
	StatusUnderHalf     Status = "ERR_UNDER_50_PCT"
	StatusLowVariety    Status = "ERR_LOW_VARIETY"
)

// failThreshold is the fill percentage below which a program fails outright.
const failThreshold = 50.0

// SlotCheck is one template slot with what the catalog could offer for it.
type SlotCheck struct {
	Muscle   string
	Required int
	Filled   int
	// Pool is the number of catalog exercises passing the user's filter.
	Pool int
}

// SessionCheck groups the slots of one session.
type SessionCheck struct {
	Name  string
	Slots []SlotCheck
}

// Validation is the grade of a program.
type Validation struct {
	Status   Status
	Details  string
	Required int
	Filled   int
	FillRate float64
	// Muscles lists the muscles that caused a non-success grade.
	Muscles []string
}

func fillRate(filled, required int) float64 {
	if required == 0 {
		return 0
	}
	return float64(filled) / float64(required) * 100
}

func validateSession(s SessionCheck) Validation {
	var (
		v        Validation
		zero     []string
		variety  []string
		affected []string
	)
	for _, slot := range s.Slots {
		v.Required += slot.Required
		v.Filled += slot.Filled
		switch {
		case slot.Pool == 0:
			zero = append(zero, slot.Muscle)
			affected = append(affected, slot.Muscle)
		case slot.Pool < slot.Required:
			variety = append(variety, fmt.Sprintf("%s (need %d, pool has %d)", slot.Muscle, slot.Required, slot.Pool))
			affected = append(affected, slot.Muscle)
		}
	}
	v.FillRate = fillRate(v.Filled, v.Required)

	switch {
	case len(zero) > 0:
		v.Status = StatusZeroExercises
		v.Details = "No exercises for: " + strings.Join(zero, ", ")
		v.Muscles = zero
	case v.FillRate < failThreshold:
		v.Status = StatusUnderHalf
		v.Details = fmt.Sprintf("Only %.1f%% filled (below 50%% threshold)", v.FillRate)
		v.Muscles = affected
	case len(variety) > 0:
		v.Status = StatusLowVariety
		v.Details = "Low variety: " + strings.Join(variety, ", ")
		v.Muscles = affected
	default:
		v.Status = StatusSuccess
	}
	return v
}

// Validate grades a whole program. Any session with an empty pool makes the
// program ERR_ZERO_EXERCISES; otherwise any failing session grades the
// program ERR_UNDER_50_PCT when the overall fill is below half and
// ERR_LOW_VARIETY when it is not.
func Validate(sessions []SessionCheck) Validation {
	var (
		out     Validation
		errs    []string
		zeroErr string
		muscles []string
	)
	for _, s := range sessions {
		v := validateSession(s)
		out.Required += v.Required
		out.Filled += v.Filled
		if v.Status == StatusSuccess {
			continue
		}
		msg := s.Name + ": " + v.Details
		errs = append(errs, msg)
		if v.Status == StatusZeroExercises && zeroErr == "" {
			zeroErr = msg
		}
		muscles = append(muscles, v.Muscles...)
	}
	out.FillRate = fillRate(out.Filled, out.Required)
	out.Muscles = muscles

	switch {
	case len(errs) == 0:
		out.Status = StatusSuccess
	case zeroErr != "":
		out.Status = StatusZeroExercises
		out.Details = zeroErr
	case out.FillRate < failThreshold:
		out.Status = StatusUnderHalf
		out.Details = strings.Join(errs, "; ")
	default:
		out.Status = StatusLowVariety
		out.Details = strings.Join(errs, "; ")
	}
	return out
}
