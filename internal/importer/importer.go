// Package importer loads the exercise catalog from CSV or XLSX tables.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/storage"
)

// Table file base names. Each may be a .csv or .xlsx file.
const (
	EquipmentTable         = "equipment"
	ExercisesTable         = "exercises"
	ContraindicationsTable = "contraindications"
)

// Loader replaces a catalog's contents.
type Loader interface {
	Load(ctx context.Context, equipment []catalog.Equipment, exercises []catalog.Exercise, contra []catalog.Contraindication) error
}

var (
	_ Loader = (*catalog.SQLiteStore)(nil)
	_ Loader = (*catalog.MemoryStore)(nil)
	_ Loader = (*storage.Catalog)(nil)
)

// Catalog is the parsed content of a catalog directory.
type Catalog struct {
	Equipment         []catalog.Equipment
	Exercises         []catalog.Exercise
	Contraindications []catalog.Contraindication
}

// Stats tracks import progress.
type Stats struct {
	Equipment         int
	Exercises         int
	InProgramme       int
	Contraindications int
	Loaded            bool
}

// Importer reads catalog tables from a directory and loads them.
type Importer struct {
	loader Loader
	log    *slog.Logger
	dryRun bool
}

// New creates a new Importer. loader may be nil in dry-run mode.
func New(loader Loader, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{loader: loader, log: log, dryRun: dryRun}
}

// Import parses and validates dir, then loads it unless running dry.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	c, err := Read(ctx, dir)
	if err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}

	stats := &Stats{
		Equipment:         len(c.Equipment),
		Exercises:         len(c.Exercises),
		Contraindications: len(c.Contraindications),
	}
	for _, ex := range c.Exercises {
		if ex.InProgramme {
			stats.InProgramme++
		}
	}
	imp.log.Info("catalog parsed",
		"equipment", stats.Equipment,
		"exercises", stats.Exercises,
		"in_programme", stats.InProgramme,
		"contraindications", stats.Contraindications,
	)

	if imp.dryRun {
		return stats, nil
	}
	if err := imp.loader.Load(ctx, c.Equipment, c.Exercises, c.Contraindications); err != nil {
		return stats, fmt.Errorf("loading catalog: %w", err)
	}
	stats.Loaded = true
	return stats, nil
}

// Read parses the three tables of dir concurrently.
func Read(ctx context.Context, dir string) (*Catalog, error) {
	var c Catalog
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := readNamedTable(dir, EquipmentTable)
		if err != nil {
			return err
		}
		c.Equipment, err = parseEquipment(rows)
		return err
	})
	g.Go(func() error {
		rows, err := readNamedTable(dir, ExercisesTable)
		if err != nil {
			return err
		}
		c.Exercises, err = parseExercises(rows)
		return err
	})
	g.Go(func() error {
		rows, err := readNamedTable(dir, ContraindicationsTable)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		c.Contraindications, err = parseContraindications(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks referential integrity: unique ids and known equipment.
func Validate(c *Catalog) error {
	equipment := make(map[string]bool, len(c.Equipment))
	for _, eq := range c.Equipment {
		if equipment[eq.ID] {
			return fmt.Errorf("duplicate equipment id %s", eq.ID)
		}
		equipment[eq.ID] = true
	}
	seen := make(map[string]bool, len(c.Exercises))
	for _, ex := range c.Exercises {
		if seen[ex.ID] {
			return fmt.Errorf("duplicate exercise id %s", ex.ID)
		}
		seen[ex.ID] = true
		if !equipment[ex.EquipmentID1] {
			return fmt.Errorf("exercise %s: unknown equipment_id_1 %q", ex.ID, ex.EquipmentID1)
		}
		if ex.EquipmentID2 != "" && !equipment[ex.EquipmentID2] {
			return fmt.Errorf("exercise %s: unknown equipment_id_2 %q", ex.ID, ex.EquipmentID2)
		}
	}
	return nil
}

// readNamedTable finds name.csv or name.xlsx in dir. A missing table reports
// an os.ErrNotExist error.
func readNamedTable(dir, name string) ([]map[string]string, error) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return readTable(path)
		}
	}
	return nil, fmt.Errorf("table %s in %s: %w", name, dir, os.ErrNotExist)
}

type rowError struct {
	table string
	line  int
	err   error
}

func (e *rowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.table, e.line, e.err)
}

func (e *rowError) Unwrap() error { return e.err }

func required(table string, line int, row map[string]string, cols ...string) error {
	for _, c := range cols {
		if row[c] == "" {
			return &rowError{table, line, fmt.Errorf("missing %s", c)}
		}
	}
	return nil
}

func parseEquipment(rows []map[string]string) ([]catalog.Equipment, error) {
	out := make([]catalog.Equipment, 0, len(rows))
	for i, row := range rows {
		if err := required(EquipmentTable, i+2, row, "equipment_id", "category", "name"); err != nil {
			return nil, err
		}
		out = append(out, catalog.Equipment{
			ID:       row["equipment_id"],
			Category: row["category"],
			Name:     row["name"],
		})
	}
	return out, nil
}

func parseExercises(rows []map[string]string) ([]catalog.Exercise, error) {
	out := make([]catalog.Exercise, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		if err := required(ExercisesTable, line, row, "exercise_id", "canonical_name", "display_name", "equipment_id_1", "primary_muscle"); err != nil {
			return nil, err
		}
		tier, err := catalog.ParseComplexity(row["complexity_level"])
		if err != nil {
			return nil, &rowError{ExercisesTable, line, err}
		}
		rating := 0
		if v := row["canonical_rating"]; v != "" {
			if rating, err = strconv.Atoi(v); err != nil {
				return nil, &rowError{ExercisesTable, line, fmt.Errorf("invalid canonical_rating %q", v)}
			}
		}
		inProgramme, err := parseBool(row["is_in_programme"], true)
		if err != nil {
			return nil, &rowError{ExercisesTable, line, err}
		}
		out = append(out, catalog.Exercise{
			ID:              row["exercise_id"],
			CanonicalName:   row["canonical_name"],
			DisplayName:     row["display_name"],
			EquipmentID1:    row["equipment_id_1"],
			EquipmentID2:    row["equipment_id_2"],
			Complexity:      tier,
			PrimaryMuscle:   row["primary_muscle"],
			SecondaryMuscle: row["secondary_muscle"],
			Instructions:    row["instructions"],
			InProgramme:     inProgramme,
			Rating:          rating,
		})
	}
	return out, nil
}

func parseContraindications(rows []map[string]string) ([]catalog.Contraindication, error) {
	out := make([]catalog.Contraindication, 0, len(rows))
	for i, row := range rows {
		if err := required(ContraindicationsTable, i+2, row, "canonical_name", "injury_type"); err != nil {
			return nil, err
		}
		out = append(out, catalog.Contraindication{
			CanonicalName: row["canonical_name"],
			InjuryType:    row["injury_type"],
		})
	}
	return out, nil
}

func parseBool(v string, def bool) (bool, error) {
	switch strings.ToLower(v) {
	case "":
		return def, nil
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", v)
}
