package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUniqueWarnings(t *testing.T) {
	in := []Warning{
		{Kind: WarnNoExercises, Muscle: "Hamstrings"},
		{Kind: WarnInsufficient, Muscle: "Chest", Requested: 4, Found: 2},
		{Kind: WarnNoExercises, Muscle: "Hamstrings"},
		{Kind: WarnNoExercises, Muscle: "Glutes"},
	}
	got := UniqueWarnings(in)
	if len(got) != 3 {
		t.Fatalf("len(UniqueWarnings) = %d, want 3", len(got))
	}
	if got[2].Muscle != "Glutes" {
		t.Errorf("order not preserved: got[2].Muscle = %q, want Glutes", got[2].Muscle)
	}
}

func TestWarningMessage(t *testing.T) {
	w := Warning{Kind: WarnInsufficient, Muscle: "Chest", Requested: 4, Found: 2}
	if msg := w.Message(); !strings.Contains(msg, "2 of 4 Chest") {
		t.Errorf("Message() = %q, want it to mention 2 of 4 Chest", msg)
	}
}

func TestWarningJSONIncludesMessage(t *testing.T) {
	data, err := json.Marshal(Warning{Kind: WarnCableAttachment})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["kind"] != string(WarnCableAttachment) {
		t.Errorf("kind = %v, want %s", m["kind"], WarnCableAttachment)
	}
	if msg, _ := m["message"].(string); msg == "" {
		t.Error("message missing from JSON")
	}

	var back Warning
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != WarnCableAttachment {
		t.Errorf("round trip kind = %q", back.Kind)
	}
}

func TestHasWarning(t *testing.T) {
	ws := []Warning{{Kind: WarnInsufficient}, {Kind: WarnExerciseRepeats}}
	if !HasWarning(ws, WarnExerciseRepeats) {
		t.Error("HasWarning(repeats) = false")
	}
	if HasWarning(ws, WarnLowFillRate) {
		t.Error("HasWarning(low fill) = true")
	}
}
