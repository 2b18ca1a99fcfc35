package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/claude/trainplan/internal/catalog"
)

// Catalog serves the exercise catalog from Postgres. The equipment table is
// small and cached in memory; Reload refreshes it after an import.
type Catalog struct {
	db *DB

	mu        sync.RWMutex
	equipment []catalog.Equipment
}

var _ catalog.Store = (*Catalog)(nil)

// NewCatalog loads the equipment table and returns a ready store.
func NewCatalog(ctx context.Context, db *DB) (*Catalog, error) {
	c := &Catalog{db: db}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the equipment table.
func (c *Catalog) Reload(ctx context.Context) error {
	rows, err := c.db.Pool.Query(ctx,
		`SELECT equipment_id, category, name FROM equipment ORDER BY category, equipment_id`)
	if err != nil {
		return fmt.Errorf("loading equipment: %w", err)
	}
	defer rows.Close()

	var eq []catalog.Equipment
	for rows.Next() {
		var e catalog.Equipment
		if err := rows.Scan(&e.ID, &e.Category, &e.Name); err != nil {
			return fmt.Errorf("scanning equipment: %w", err)
		}
		eq = append(eq, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.equipment = eq
	c.mu.Unlock()
	return nil
}

// Equipment returns the cached equipment table.
func (c *Catalog) Equipment() []catalog.Equipment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]catalog.Equipment(nil), c.equipment...)
}

func (c *Catalog) Fetch(ctx context.Context, f catalog.Filter) ([]catalog.Exercise, error) {
	q, args := catalog.BuildFetchQuery(f, f.AllowedEquipment(c.Equipment()), catalog.Dollar)
	rows, err := c.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var out []catalog.Exercise
	for rows.Next() {
		ex, err := catalog.ScanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (c *Catalog) FetchByID(ctx context.Context, id string) (*catalog.Exercise, error) {
	ex, err := catalog.ScanExercise(c.db.Pool.QueryRow(ctx, catalog.ByIDQuery(catalog.Dollar), id))
	if isNoRows(err) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching exercise %s: %w", id, err)
	}
	return &ex, nil
}

func (c *Catalog) FetchContraindications(ctx context.Context, canonicalName string) ([]string, error) {
	return c.strings(ctx, `SELECT injury_type FROM exercise_contraindications
		WHERE canonical_name = $1 ORDER BY injury_type`, canonicalName)
}

func (c *Catalog) Muscles(ctx context.Context) ([]string, error) {
	return c.strings(ctx, `SELECT DISTINCT primary_muscle FROM exercises
		WHERE is_in_programme ORDER BY primary_muscle`)
}

func (c *Catalog) EquipmentCategories(ctx context.Context) ([]string, error) {
	return c.strings(ctx, `SELECT DISTINCT eq.category FROM exercises ex
		JOIN equipment eq ON eq.equipment_id = ex.equipment_id_1
		WHERE ex.is_in_programme ORDER BY eq.category`)
}

func (c *Catalog) InjuryTypes(ctx context.Context) ([]string, error) {
	return c.strings(ctx, `SELECT DISTINCT injury_type FROM exercise_contraindications ORDER BY injury_type`)
}

func (c *Catalog) CanonicalNames(ctx context.Context) ([]string, error) {
	return c.strings(ctx, `SELECT DISTINCT canonical_name FROM exercises
		WHERE is_in_programme ORDER BY canonical_name`)
}

func (c *Catalog) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.db.Pool.Query(ctx, query, args...)
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

// Load replaces the catalog contents in one transaction. Equipment and
// exercises are written with CopyFrom.
func (c *Catalog) Load(ctx context.Context, equipment []catalog.Equipment, exercises []catalog.Exercise, contra []catalog.Contraindication) error {
	tx, err := c.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning catalog load: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE exercise_contraindications, exercises, equipment`); err != nil {
		return fmt.Errorf("clearing catalog: %w", err)
	}

	eqRows := make([][]any, len(equipment))
	for i, eq := range equipment {
		eqRows[i] = []any{eq.ID, eq.Category, eq.Name}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"equipment"},
		[]string{"equipment_id", "category", "name"},
		pgx.CopyFromRows(eqRows)); err != nil {
		return fmt.Errorf("copying equipment: %w", err)
	}

	exRows := make([][]any, len(exercises))
	for i, ex := range exercises {
		exRows[i] = []any{
			ex.ID, ex.CanonicalName, ex.DisplayName, ex.EquipmentID1, nullable(ex.EquipmentID2),
			ex.Complexity, ex.PrimaryMuscle, nullable(ex.SecondaryMuscle), nullable(ex.Instructions),
			ex.InProgramme, ex.Rating,
		}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"exercises"},
		[]string{"exercise_id", "canonical_name", "display_name", "equipment_id_1", "equipment_id_2",
			"complexity_level", "primary_muscle", "secondary_muscle", "instructions",
			"is_in_programme", "canonical_rating"},
		pgx.CopyFromRows(exRows)); err != nil {
		return fmt.Errorf("copying exercises: %w", err)
	}

	for _, ci := range contra {
		if _, err := tx.Exec(ctx,
			`INSERT INTO exercise_contraindications (canonical_name, injury_type)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			ci.CanonicalName, ci.InjuryType); err != nil {
			return fmt.Errorf("inserting contraindication: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing catalog load: %w", err)
	}
	return c.Reload(ctx)
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
