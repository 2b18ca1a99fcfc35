package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/claude/trainplan/internal/catalog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	equipmentCSV = `equipment_id,category,name
EQ001,Bodyweight,Bodyweight
EQ002,Barbells,Barbells
EQ011,Other,Flat Bench
`
	exercisesCSV = `exercise_id,canonical_name,display_name,equipment_id_1,equipment_id_2,complexity_level,primary_muscle,secondary_muscle,instructions,is_in_programme,canonical_rating
EX001,Bench Press,Barbell Bench Press,EQ002,EQ011,2,Chest,Triceps,"Lower the bar, then press.",1,95
EX002,Push-Up,Push-Up,EQ001,,All,Chest,,,,80

EX003,Smith Squat,Smith Machine Squat,EQ002,,1,Quads,,,0,
`
	contraCSV = `canonical_name,injury_type
Bench Press,Shoulder
`
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestReadCSV(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"equipment.csv":         equipmentCSV,
		"exercises.csv":         exercisesCSV,
		"contraindications.csv": contraCSV,
	})
	c, err := Read(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []catalog.Exercise{
		{ID: "EX001", CanonicalName: "Bench Press", DisplayName: "Barbell Bench Press", EquipmentID1: "EQ002", EquipmentID2: "EQ011",
			Complexity: 2, PrimaryMuscle: "Chest", SecondaryMuscle: "Triceps", Instructions: "Lower the bar, then press.", InProgramme: true, Rating: 95},
		{ID: "EX002", CanonicalName: "Push-Up", DisplayName: "Push-Up", EquipmentID1: "EQ001",
			Complexity: 0, PrimaryMuscle: "Chest", InProgramme: true, Rating: 80},
		{ID: "EX003", CanonicalName: "Smith Squat", DisplayName: "Smith Machine Squat", EquipmentID1: "EQ002",
			Complexity: 1, PrimaryMuscle: "Quads", InProgramme: false},
	}
	if diff := cmp.Diff(want, c.Exercises); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
	if len(c.Equipment) != 3 || c.Equipment[2].Name != "Flat Bench" {
		t.Errorf("equipment = %+v", c.Equipment)
	}
	if diff := cmp.Diff([]catalog.Contraindication{{CanonicalName: "Bench Press", InjuryType: "Shoulder"}}, c.Contraindications); diff != "" {
		t.Errorf("contraindications mismatch (-want +got):\n%s", diff)
	}
}

func TestReadXLSX(t *testing.T) {
	dir := writeFiles(t, map[string]string{"exercises.csv": exercisesCSV})

	f := excelize.NewFile()
	for i, line := range strings.Split(strings.TrimSpace(equipmentCSV), "\n") {
		cells := strings.Split(line, ",")
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(filepath.Join(dir, "equipment.xlsx")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c, err := Read(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []catalog.Equipment{
		{ID: "EQ001", Category: "Bodyweight", Name: "Bodyweight"},
		{ID: "EQ002", Category: "Barbells", Name: "Barbells"},
		{ID: "EQ011", Category: "Other", Name: "Flat Bench"},
	}
	if diff := cmp.Diff(want, c.Equipment); diff != "" {
		t.Errorf("equipment mismatch (-want +got):\n%s", diff)
	}
	if c.Contraindications != nil {
		t.Errorf("missing contraindications table produced %v", c.Contraindications)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "missing exercises",
			files: map[string]string{"equipment.csv": equipmentCSV},
			want:  "table exercises",
		},
		{
			name: "bad complexity",
			files: map[string]string{
				"equipment.csv": equipmentCSV,
				"exercises.csv": "exercise_id,canonical_name,display_name,equipment_id_1,complexity_level,primary_muscle\nEX9,A,A,EQ001,7,Chest\n",
			},
			want: "exercises row 2: invalid complexity",
		},
		{
			name: "missing column value",
			files: map[string]string{
				"equipment.csv": "equipment_id,category,name\nEQ001,,Bodyweight\n",
				"exercises.csv": exercisesCSV,
			},
			want: "equipment row 2: missing category",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(context.Background(), writeFiles(t, tt.files))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	eq := []catalog.Equipment{{ID: "EQ001"}}
	tests := []struct {
		name string
		c    Catalog
		want string
	}{
		{"ok", Catalog{Equipment: eq, Exercises: []catalog.Exercise{{ID: "A", EquipmentID1: "EQ001"}}}, ""},
		{"unknown primary", Catalog{Equipment: eq, Exercises: []catalog.Exercise{{ID: "A", EquipmentID1: "EQ404"}}}, "unknown equipment_id_1"},
		{"unknown secondary", Catalog{Equipment: eq, Exercises: []catalog.Exercise{{ID: "A", EquipmentID1: "EQ001", EquipmentID2: "EQ404"}}}, "unknown equipment_id_2"},
		{"duplicate exercise", Catalog{Equipment: eq, Exercises: []catalog.Exercise{{ID: "A", EquipmentID1: "EQ001"}, {ID: "A", EquipmentID1: "EQ001"}}}, "duplicate exercise"},
		{"duplicate equipment", Catalog{Equipment: append(eq, eq...)}, "duplicate equipment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.c)
			switch {
			case tt.want == "" && err != nil:
				t.Errorf("Validate = %v, want nil", err)
			case tt.want != "" && (err == nil || !strings.Contains(err.Error(), tt.want)):
				t.Errorf("Validate = %v, want %q", err, tt.want)
			}
		})
	}
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, []catalog.Equipment, []catalog.Exercise, []catalog.Contraindication) error {
	return errors.New("read-only database")
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	dir := writeFiles(t, map[string]string{
		"equipment.csv":         equipmentCSV,
		"exercises.csv":         exercisesCSV,
		"contraindications.csv": contraCSV,
	})

	store := catalog.NewMemoryStore(nil, nil, nil)
	stats, err := New(store, testLogger(), false).Import(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	want := &Stats{Equipment: 3, Exercises: 3, InProgramme: 2, Contraindications: 1, Loaded: true}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	ex, err := store.FetchByID(ctx, "EX001")
	if err != nil {
		t.Fatal(err)
	}
	if ex.EquipmentName != "Barbells" {
		t.Errorf("equipment name = %q, want Barbells", ex.EquipmentName)
	}
	contra, _ := store.FetchContraindications(ctx, "Bench Press")
	if diff := cmp.Diff([]string{"Shoulder"}, contra); diff != "" {
		t.Errorf("contraindications mismatch (-want +got):\n%s", diff)
	}
}

func TestImportDryRun(t *testing.T) {
	dir := writeFiles(t, map[string]string{"equipment.csv": equipmentCSV, "exercises.csv": exercisesCSV})
	stats, err := New(failingLoader{}, testLogger(), true).Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("dry run touched the loader: %v", err)
	}
	if stats.Loaded || stats.Exercises != 3 {
		t.Errorf("stats = %+v, want 3 exercises, not loaded", stats)
	}
}

func TestImportLoadError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"equipment.csv": equipmentCSV, "exercises.csv": exercisesCSV})
	if _, err := New(failingLoader{}, testLogger(), false).Import(context.Background(), dir); err == nil {
		t.Error("Import succeeded with a failing loader")
	}
}
