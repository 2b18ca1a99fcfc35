package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS equipment (
	equipment_id   TEXT PRIMARY KEY,
	category       TEXT NOT NULL,
	name           TEXT NOT NULL,
	image_filename TEXT
);
CREATE TABLE IF NOT EXISTS exercises (
	exercise_id      TEXT PRIMARY KEY,
	canonical_name   TEXT NOT NULL,
	display_name     TEXT NOT NULL,
	equipment_id_1   TEXT NOT NULL REFERENCES equipment(equipment_id),
	equipment_id_2   TEXT REFERENCES equipment(equipment_id),
	complexity_level INTEGER NOT NULL DEFAULT 0,
	primary_muscle   TEXT NOT NULL,
	secondary_muscle TEXT,
	instructions     TEXT,
	is_in_programme  INTEGER NOT NULL DEFAULT 1,
	canonical_rating INTEGER NOT NULL DEFAULT 0,
	progression_id   TEXT,
	regression_id    TEXT
);
CREATE INDEX IF NOT EXISTS idx_exercises_muscle ON exercises(primary_muscle);
CREATE INDEX IF NOT EXISTS idx_exercises_canonical ON exercises(canonical_name);
CREATE TABLE IF NOT EXISTS exercise_contraindications (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	canonical_name TEXT NOT NULL,
	injury_type    TEXT NOT NULL,
	UNIQUE (canonical_name, injury_type)
);`

// SQLiteStore serves the catalog from a local SQLite file.
type SQLiteStore struct {
	db *sql.DB

	mu        sync.RWMutex
	equipment []Equipment
}

// Compile-time check: *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the catalog database at path and loads the
// equipment table into memory.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}
	// A single connection serialises readers, matching the app's single
	// read queue and keeping :memory: databases shared.
	db.SetMaxOpenConns(1)

	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating catalog schema: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.loadEquipment(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadEquipment(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT equipment_id, category, name FROM equipment ORDER BY category, equipment_id`)
	if err != nil {
		return fmt.Errorf("loading equipment: %w", err)
	}
	defer rows.Close()

	var eq []Equipment
	for rows.Next() {
		var e Equipment
		if err := rows.Scan(&e.ID, &e.Category, &e.Name); err != nil {
			return fmt.Errorf("scanning equipment: %w", err)
		}
		eq = append(eq, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.equipment = eq
	s.mu.Unlock()
	return nil
}

// Equipment returns the cached equipment table.
func (s *SQLiteStore) Equipment() []Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Equipment(nil), s.equipment...)
}

// Fetch runs the filter as one query.
func (s *SQLiteStore) Fetch(ctx context.Context, f Filter) ([]Exercise, error) {
	q, args := BuildFetchQuery(f, f.AllowedEquipment(s.Equipment()), QuestionMark)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []Exercise
	for rows.Next() {
		ex, err := ScanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FetchByID(ctx context.Context, id string) (*Exercise, error) {
	ex, err := ScanExercise(s.db.QueryRowContext(ctx, ByIDQuery(QuestionMark), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching exercise %s: %w", id, err)
	}
	return &ex, nil
}

func (s *SQLiteStore) FetchContraindications(ctx context.Context, canonicalName string) ([]string, error) {
	return s.strings(ctx, `SELECT injury_type FROM exercise_contraindications
		WHERE canonical_name = ? ORDER BY injury_type`, canonicalName)
}

func (s *SQLiteStore) Muscles(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT DISTINCT primary_muscle FROM exercises
		WHERE is_in_programme = 1 ORDER BY primary_muscle`)
}

func (s *SQLiteStore) EquipmentCategories(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT DISTINCT eq.category FROM exercises ex
		JOIN equipment eq ON eq.equipment_id = ex.equipment_id_1
		WHERE ex.is_in_programme = 1 ORDER BY eq.category`)
}

func (s *SQLiteStore) InjuryTypes(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT DISTINCT injury_type FROM exercise_contraindications ORDER BY injury_type`)
}

func (s *SQLiteStore) CanonicalNames(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `SELECT DISTINCT canonical_name FROM exercises
		WHERE is_in_programme = 1 ORDER BY canonical_name`)
}

func (s *SQLiteStore) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Load replaces the catalog contents in one transaction.
func (s *SQLiteStore) Load(ctx context.Context, equipment []Equipment, exercises []Exercise, contra []Contraindication) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning catalog load: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM exercise_contraindications`,
		`DELETE FROM exercises`,
		`DELETE FROM equipment`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
	}

	for _, eq := range equipment {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO equipment (equipment_id, category, name) VALUES (?, ?, ?)`,
			eq.ID, eq.Category, eq.Name); err != nil {
			return fmt.Errorf("inserting equipment %s: %w", eq.ID, err)
		}
	}
	for _, ex := range exercises {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exercises (exercise_id, canonical_name, display_name, equipment_id_1,
			 equipment_id_2, complexity_level, primary_muscle, secondary_muscle, instructions,
			 is_in_programme, canonical_rating) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ex.ID, ex.CanonicalName, ex.DisplayName, ex.EquipmentID1, nullable(ex.EquipmentID2),
			ex.Complexity, ex.PrimaryMuscle, nullable(ex.SecondaryMuscle), nullable(ex.Instructions),
			ex.InProgramme, ex.Rating); err != nil {
			return fmt.Errorf("inserting exercise %s: %w", ex.ID, err)
		}
	}
	for _, c := range contra {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO exercise_contraindications (canonical_name, injury_type) VALUES (?, ?)`,
			c.CanonicalName, c.InjuryType); err != nil {
			return fmt.Errorf("inserting contraindication: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog load: %w", err)
	}
	return s.loadEquipment(ctx)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
