package catalog

// DemoEquipment is the equipment table shipped with the demo catalog.
// Every category has a base item whose name equals the category.
func DemoEquipment() []Equipment {
	return []Equipment{
		{ID: "EQ001", Category: "Bodyweight", Name: "Bodyweight"},
		{ID: "EQ002", Category: "Barbells", Name: "Barbells"},
		{ID: "EQ003", Category: "Dumbbells", Name: "Dumbbells"},
		{ID: "EQ004", Category: "Kettlebells", Name: "Kettlebells"},
		{ID: "EQ005", Category: "Cables", Name: "Cables"},
		{ID: "EQ006", Category: "Pin-Loaded Machines", Name: "Pin-Loaded Machines"},
		{ID: "EQ007", Category: "Plate-Loaded Machines", Name: "Plate-Loaded Machines"},
		{ID: "EQ008", Category: "Other", Name: "Other"},
		{ID: "EQ009", Category: "Other", Name: "Pull-Up Bar"},
		{ID: "EQ010", Category: "Other", Name: "Dip Bars"},
		{ID: "EQ011", Category: "Other", Name: "Flat Bench"},
		{ID: "EQ012", Category: "Barbells", Name: "EZ-Bar"},
		{ID: "EQ013", Category: "Attachment", Name: "Straight Bar"},
		{ID: "EQ014", Category: "Attachment", Name: "Rope"},
		{ID: "EQ015", Category: "Attachment", Name: "D-Handles"},
		{ID: "EQ016", Category: "Attachment", Name: "EZ-Bar Cable"},
		{ID: "EQ017", Category: "Attachment", Name: "Ankle Strap"},
		{ID: "EQ018", Category: "Attachment", Name: "Resistance Band"},
	}
}

type demoRow struct {
	id, display, canonical, muscle, eq1, eq2 string
	tier, rating                             int
}

var demoRows = []demoRow{
	// Chest
	{"EX001", "Barbell Bench Press", "Bench Press", "Chest", "EQ002", "EQ011", 2, 95},
	{"EX002", "Incline Dumbbell Press", "Incline Press", "Chest", "EQ003", "EQ011", 1, 88},
	{"EX003", "Dumbbell Bench Press", "Bench Press", "Chest", "EQ003", "EQ011", 1, 86},
	{"EX004", "Machine Chest Press", "Chest Press", "Chest", "EQ006", "", 0, 80},
	{"EX005", "Cable Fly", "Chest Fly", "Chest", "EQ005", "EQ015", 1, 72},
	{"EX006", "Push-Up", "Push-Up", "Chest", "EQ001", "", 0, 70},
	{"EX007", "Decline Push-Up", "Push-Up", "Chest", "EQ001", "", 1, 62},
	{"EX008", "Plate-Loaded Incline Press", "Incline Press", "Chest", "EQ007", "", 0, 76},

	// Back
	{"EX010", "Conventional Deadlift", "Deadlift", "Back", "EQ002", "", 3, 96},
	{"EX011", "Pull-Up", "Pull-Up", "Back", "EQ001", "EQ009", 2, 93},
	{"EX012", "Barbell Bent-Over Row", "Bent-Over Row", "Back", "EQ002", "", 2, 90},
	{"EX013", "Lat Pulldown", "Lat Pulldown", "Back", "EQ006", "", 0, 85},
	{"EX014", "Seated Cable Row", "Seated Row", "Back", "EQ005", "EQ015", 1, 82},
	{"EX015", "Single-Arm Dumbbell Row", "One-Arm Row", "Back", "EQ003", "EQ011", 1, 78},
	{"EX016", "Machine Row", "Seated Row", "Back", "EQ006", "", 0, 74},
	{"EX017", "Inverted Row", "Inverted Row", "Back", "EQ001", "", 1, 60},
	{"EX018", "Dumbbell Pullover", "Pullover", "Back", "EQ003", "EQ011", 1, 55},

	// Shoulders
	{"EX020", "Barbell Overhead Press", "Overhead Press", "Shoulders", "EQ002", "", 2, 92},
	{"EX021", "Seated Dumbbell Shoulder Press", "Shoulder Press", "Shoulders", "EQ003", "", 1, 87},
	{"EX022", "Dumbbell Lateral Raise", "Lateral Raise", "Shoulders", "EQ003", "", 0, 81},
	{"EX023", "Cable Face Pull", "Face Pull", "Shoulders", "EQ005", "EQ014", 1, 77},
	{"EX024", "Machine Shoulder Press", "Shoulder Press", "Shoulders", "EQ006", "", 0, 75},
	{"EX025", "Pike Push-Up", "Pike Push-Up", "Shoulders", "EQ001", "", 1, 64},
	{"EX026", "Kettlebell Halo", "Halo", "Shoulders", "EQ004", "", 0, 50},

	// Quads
	{"EX030", "Barbell Back Squat", "Squat", "Quads", "EQ002", "", 2, 97},
	{"EX031", "Leg Press", "Leg Press", "Quads", "EQ007", "", 0, 86},
	{"EX032", "Bulgarian Split Squat", "Split Squat", "Quads", "EQ003", "EQ011", 1, 84},
	{"EX033", "Leg Extension", "Leg Extension", "Quads", "EQ006", "", 0, 70},
	{"EX034", "Bodyweight Squat", "Squat", "Quads", "EQ001", "", 0, 58},
	{"EX035", "Walking Lunge", "Lunge", "Quads", "EQ001", "", 1, 66},
	{"EX036", "Goblet Squat", "Squat", "Quads", "EQ004", "", 0, 79},

	// Hamstrings
	{"EX040", "Romanian Deadlift", "Romanian Deadlift", "Hamstrings", "EQ002", "", 2, 94},
	{"EX041", "Lying Leg Curl", "Leg Curl", "Hamstrings", "EQ006", "", 0, 83},
	{"EX042", "Dumbbell Romanian Deadlift", "Romanian Deadlift", "Hamstrings", "EQ003", "", 1, 80},
	{"EX043", "Kettlebell Swing", "Swing", "Hamstrings", "EQ004", "", 1, 73},
	{"EX044", "Good Morning", "Good Morning", "Hamstrings", "EQ002", "", 3, 68},

	// Glutes
	{"EX050", "Barbell Hip Thrust", "Hip Thrust", "Glutes", "EQ002", "EQ011", 1, 91},
	{"EX051", "Cable Kickback", "Kickback", "Glutes", "EQ005", "EQ017", 0, 65},
	{"EX052", "Glute Bridge", "Glute Bridge", "Glutes", "EQ001", "", 0, 62},
	{"EX053", "Hip Abduction Machine", "Hip Abduction", "Glutes", "EQ006", "", 0, 60},

	// Core
	{"EX060", "Plank", "Plank", "Core", "EQ001", "", 0, 75},
	{"EX061", "Cable Crunch", "Crunch", "Core", "EQ005", "EQ014", 1, 72},
	{"EX062", "Hanging Leg Raise", "Leg Raise", "Core", "EQ001", "EQ009", 2, 78},
	{"EX063", "Dead Bug", "Dead Bug", "Core", "EQ001", "", 0, 55},

	// Biceps
	{"EX070", "Barbell Curl", "Curl", "Biceps", "EQ002", "", 1, 85},
	{"EX071", "Hammer Curl", "Hammer Curl", "Biceps", "EQ003", "", 0, 80},
	{"EX072", "Incline Dumbbell Curl", "Incline Curl", "Biceps", "EQ003", "EQ011", 1, 76},
	{"EX073", "Cable Curl", "Curl", "Biceps", "EQ005", "EQ013", 0, 70},
	{"EX074", "Preacher Curl Machine", "Preacher Curl", "Biceps", "EQ006", "", 0, 68},

	// Triceps
	{"EX080", "Parallel Bar Dip", "Dip", "Triceps", "EQ001", "EQ010", 2, 88},
	{"EX081", "Cable Tricep Pushdown", "Pushdown", "Triceps", "EQ005", "EQ014", 0, 82},
	{"EX082", "Close-Grip Bench Press", "Close-Grip Press", "Triceps", "EQ002", "EQ011", 2, 80},
	{"EX083", "Overhead Dumbbell Extension", "Overhead Extension", "Triceps", "EQ003", "", 1, 74},
	{"EX084", "Diamond Push-Up", "Diamond Push-Up", "Triceps", "EQ001", "", 1, 60},

	// Calves
	{"EX090", "Standing Calf Raise", "Calf Raise", "Calves", "EQ006", "", 0, 70},
	{"EX091", "Seated Calf Raise", "Seated Calf Raise", "Calves", "EQ007", "", 0, 65},

	// Retired from programmes, kept for alternatives lookups.
	{"EX099", "Smith Machine Squat", "Squat", "Quads", "EQ007", "", 1, 71},
}

// DemoExercises returns the demo catalog rows. EX099 is not in programme.
func DemoExercises() []Exercise {
	names := make(map[string]string)
	for _, eq := range DemoEquipment() {
		names[eq.ID] = eq.Name
	}
	out := make([]Exercise, 0, len(demoRows))
	for _, r := range demoRows {
		out = append(out, Exercise{
			ID:            r.id,
			CanonicalName: r.canonical,
			DisplayName:   r.display,
			EquipmentID1:  r.eq1,
			EquipmentID2:  r.eq2,
			Complexity:    r.tier,
			PrimaryMuscle: r.muscle,
			InProgramme:   r.id != "EX099",
			Rating:        r.rating,
			EquipmentName: names[r.eq1],
		})
	}
	return out
}

// DemoContraindications returns the injury links for the demo catalog.
func DemoContraindications() []Contraindication {
	return []Contraindication{
		{CanonicalName: "Bench Press", InjuryType: "Shoulder"},
		{CanonicalName: "Overhead Press", InjuryType: "Shoulder"},
		{CanonicalName: "Dip", InjuryType: "Shoulder"},
		{CanonicalName: "Deadlift", InjuryType: "Lower Back"},
		{CanonicalName: "Romanian Deadlift", InjuryType: "Lower Back"},
		{CanonicalName: "Good Morning", InjuryType: "Lower Back"},
		{CanonicalName: "Squat", InjuryType: "Knee"},
		{CanonicalName: "Split Squat", InjuryType: "Knee"},
		{CanonicalName: "Lunge", InjuryType: "Knee"},
		{CanonicalName: "Curl", InjuryType: "Elbow"},
		{CanonicalName: "Pull-Up", InjuryType: "Elbow"},
	}
}

// DemoCatalog returns an in-memory store loaded with the demo data.
func DemoCatalog() *MemoryStore {
	return NewMemoryStore(DemoEquipment(), DemoExercises(), DemoContraindications())
}
