package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
)

func TestFingerprint(t *testing.T) {
	base := models.Questionnaire{
		DaysPerWeek:     3,
		SessionDuration: "45-60 min",
		Experience:      "beginner",
		Equipment:       []string{"dumbbells", "bodyweight"},
		Goals:           []string{"build_muscle"},
	}
	same := base
	same.SessionDuration = " 45-60 MIN "
	same.Equipment = []string{"Bodyweight", "dumbbells", "dumbbells"}
	if Fingerprint(base) != Fingerprint(same) {
		t.Error("fingerprint depends on order, case or duplicates")
	}

	tests := []struct {
		name   string
		mutate func(*models.Questionnaire)
	}{
		{"days", func(q *models.Questionnaire) { q.DaysPerWeek = 4 }},
		{"experience", func(q *models.Questionnaire) { q.Experience = "advanced" }},
		{"equipment", func(q *models.Questionnaire) { q.Equipment = append(q.Equipment, "barbells") }},
		{"priority", func(q *models.Questionnaire) { q.PriorityMuscles = []string{"Chest"} }},
		{"goals", func(q *models.Questionnaire) { q.Goals = []string{"get_stronger"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			q.Equipment = append([]string(nil), base.Equipment...)
			tt.mutate(&q)
			if Fingerprint(q) == Fingerprint(base) {
				t.Errorf("changing %s kept the fingerprint", tt.name)
			}
		})
	}
}

// TestDecodeKeepsWarnings verifies the rendered message added on encode does
// not break decoding.
func TestDecodeKeepsWarnings(t *testing.T) {
	res := &program.Result{
		Program:   program.Fallback(3, "45-60 min"),
		Warnings:  []models.Warning{{Kind: models.WarnInsufficient, Muscle: "Chest", Requested: 2, Found: 1}},
		FillRates: []float64{100, 100, 100},
		LowFill:   false,
		Repeats:   true,
	}
	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(res, got); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	if err := c.Set(context.Background(), "k", &program.Result{}); err != nil {
		t.Fatal(err)
	}
	res, err := c.Get(context.Background(), "k")
	if res != nil || err != nil {
		t.Errorf("Get = %v, %v, want miss", res, err)
	}
}
