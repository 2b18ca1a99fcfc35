package program

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRepRangeOptions(t *testing.T) {
	tests := []struct {
		goals  string
		rating int
		want   []string
	}{
		{"get_stronger", 90, []string{"5-8", "6-10"}},
		{"get_stronger", 75, []string{"6-10", "8-12"}},
		{"get_stronger,tone_up", 80, []string{"5-8", "6-10"}},
		{"build_muscle,get_stronger", 40, []string{"6-10", "8-12"}},
		{"build_muscle,tone_up", 90, []string{"8-12", "10-14"}},
		{"tone_up", 20, []string{"8-12", "10-14"}},
		{"fat_loss", 20, []string{"8-12", "10-14"}},
		{"build_muscle", 90, []string{"6-10", "8-12"}},
		{"increase_muscle", 10, []string{"6-10", "8-12"}},
		{"", 90, []string{"8-12"}},
		{"mobility", 50, []string{"8-12"}},
	}
	for _, tt := range tests {
		got := RepRangeOptions(tt.goals, tt.rating)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("RepRangeOptions(%q, %d) mismatch (-want +got):\n%s", tt.goals, tt.rating, diff)
		}
	}
}

// TestRepRangeUsesRand verifies the label comes from the options and that
// FirstChoice pins it.
func TestRepRangeUsesRand(t *testing.T) {
	if got := RepRange("get_stronger", 90, FirstChoice{}); got != "5-8" {
		t.Errorf("RepRange with FirstChoice = %q, want 5-8", got)
	}
	if got := RepRange("", 90, nil); got != "8-12" {
		t.Errorf("RepRange default = %q, want 8-12", got)
	}

	r := NewRand(42)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		label := RepRange("build_muscle,tone_up", 60, r)
		if label != "8-12" && label != "10-14" {
			t.Fatalf("unexpected label %q", label)
		}
		seen[label] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both labels over 200 draws, got %v", seen)
	}
}

func TestRestSeconds(t *testing.T) {
	tests := []struct {
		rating int
		want   int
	}{
		{100, 120},
		{81, 120},
		{80, 90},
		{50, 90},
		{49, 60},
		{0, 60},
	}
	for _, tt := range tests {
		if got := RestSeconds(tt.rating); got != tt.want {
			t.Errorf("RestSeconds(%d) = %d, want %d", tt.rating, got, tt.want)
		}
	}
}

func TestEmergencyExercises(t *testing.T) {
	tests := []struct {
		session string
		want    []string
	}{
		{"Push", []string{"Push-ups", "Pike Push-ups"}},
		{"Pull", []string{"Pull-ups (or Assisted)", "Inverted Rows"}},
		{"Legs", []string{"Bodyweight Squats", "Lunges"}},
		{"Upper A", []string{"Push-ups", "Pike Push-ups", "Pull-ups (or Assisted)"}},
		{"LOWER BODY", []string{"Bodyweight Squats", "Lunges", "Glute Bridges"}},
		{"Full Body", []string{"Push-ups", "Bodyweight Squats", "Plank"}},
	}
	for _, tt := range tests {
		got := EmergencyExercises(tt.session)
		var names []string
		for _, ex := range got {
			names = append(names, ex.Name)
			if ex.Sets != 3 || ex.RestSeconds != 90 || ex.Complexity != 0 || ex.Equipment != "Bodyweight" {
				t.Errorf("%s: %+v does not follow the emergency prescription", tt.session, ex)
			}
			if !strings.HasPrefix(ex.ExerciseID, "emergency_") || strings.Contains(ex.ExerciseID, " ") {
				t.Errorf("%s: bad synthetic id %q", tt.session, ex.ExerciseID)
			}
			wantReps := "8-12"
			if ex.Name == "Plank" {
				wantReps = "30-60 sec"
			}
			if ex.RepRange != wantReps {
				t.Errorf("%s rep range = %q, want %q", ex.Name, ex.RepRange, wantReps)
			}
		}
		if diff := cmp.Diff(tt.want, names); diff != "" {
			t.Errorf("EmergencyExercises(%q) mismatch (-want +got):\n%s", tt.session, diff)
		}
	}

	if got := EmergencyExercises("Push")[0].ExerciseID; got != "emergency_push-ups" {
		t.Errorf("id = %q, want emergency_push-ups", got)
	}
}
