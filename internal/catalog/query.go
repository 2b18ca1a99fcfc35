package catalog

import (
	"fmt"
	"strings"
)

// Placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type Placeholder func(n int) string

// QuestionMark is the SQLite placeholder style.
func QuestionMark(int) string { return "?" }

// Dollar is the Postgres placeholder style.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// SelectColumns is the exercise projection shared by the SQL stores. It joins
// the equipment table for the primary equipment name.
const SelectColumns = `e.exercise_id, e.canonical_name, e.display_name, e.equipment_id_1,
	COALESCE(e.equipment_id_2, ''), e.complexity_level, e.primary_muscle,
	COALESCE(e.secondary_muscle, ''), COALESCE(e.instructions, ''), e.is_in_programme,
	e.canonical_rating, COALESCE(eq.name, '')`

const fromExercises = ` FROM exercises e LEFT JOIN equipment eq ON eq.equipment_id = e.equipment_id_1`

// Scanner is satisfied by *sql.Row, *sql.Rows and pgx rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanExercise reads one row projected with SelectColumns.
func ScanExercise(s Scanner) (Exercise, error) {
	var ex Exercise
	err := s.Scan(&ex.ID, &ex.CanonicalName, &ex.DisplayName, &ex.EquipmentID1,
		&ex.EquipmentID2, &ex.Complexity, &ex.PrimaryMuscle,
		&ex.SecondaryMuscle, &ex.Instructions, &ex.InProgramme,
		&ex.Rating, &ex.EquipmentName)
	return ex, err
}

// BuildFetchQuery renders the filter as a single SELECT ordered by complexity
// descending. allowed is the resolved equipment id set (nil for no
// equipment restriction).
func BuildFetchQuery(f Filter, allowed []string, ph Placeholder) (string, []any) {
	var (
		where []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return ph(len(args))
	}
	in := func(vals []string) string {
		marks := make([]string, len(vals))
		for i, v := range vals {
			marks[i] = bind(v)
		}
		return strings.Join(marks, ", ")
	}

	if f.ProgrammeOnly {
		where = append(where, "e.is_in_programme = "+bind(true))
	}
	if f.CanonicalName != "" {
		where = append(where, "e.canonical_name = "+bind(f.CanonicalName))
	}
	if f.PrimaryMuscle != "" {
		where = append(where, "e.primary_muscle = "+bind(f.PrimaryMuscle))
	}
	if f.Pattern != "" {
		where = append(where, "LOWER(e.canonical_name) LIKE "+bind("%"+strings.ToLower(f.Pattern)+"%"))
	}
	if allowed != nil {
		if len(allowed) == 0 {
			where = append(where, "1 = 0")
		} else {
			where = append(where, "e.equipment_id_1 IN ("+in(allowed)+")")
			where = append(where, "(e.equipment_id_2 IS NULL OR e.equipment_id_2 = '' OR e.equipment_id_2 IN ("+in(allowed)+"))")
		}
	}

	tiers := AdmittedTiers(f.MaxComplexity, f.ExcludeTopTier)
	marks := make([]string, len(tiers))
	for i, t := range tiers {
		marks[i] = bind(t)
	}
	where = append(where, "e.complexity_level IN ("+strings.Join(marks, ", ")+")")

	if len(f.ExcludeIDs) > 0 {
		where = append(where, "e.exercise_id NOT IN ("+in(f.ExcludeIDs)+")")
	}

	q := "SELECT " + SelectColumns + fromExercises +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY e.complexity_level DESC, e.exercise_id ASC"
	return q, args
}

// ByIDQuery selects one exercise by id.
func ByIDQuery(ph Placeholder) string {
	return "SELECT " + SelectColumns + fromExercises + " WHERE e.exercise_id = " + ph(1)
}
