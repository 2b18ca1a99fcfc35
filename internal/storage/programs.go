package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/trainplan/internal/models"
)

// ProgramRecord is a persisted program with the inputs and diagnostics of the
// run that produced it.
type ProgramRecord struct {
	ID            uuid.UUID            `json:"id"`
	UserID        int                  `json:"user_id"`
	CreatedAt     time.Time            `json:"created_at"`
	Questionnaire models.Questionnaire `json:"questionnaire"`
	Program       models.Program       `json:"program"`
	Warnings      []models.Warning     `json:"warnings"`
	LowFill       bool                 `json:"low_fill"`
	Repeats       bool                 `json:"repeats"`
	FallbackUsed  bool                 `json:"fallback_used"`
}

// ProgramSummary is the list view of a program.
type ProgramSummary struct {
	ID           uuid.UUID        `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	Split        models.SplitType `json:"split"`
	DaysPerWeek  int              `json:"days_per_week"`
	Duration     string           `json:"duration"`
	Warnings     int              `json:"warnings"`
	FallbackUsed bool             `json:"fallback_used"`
}

// InsertProgram stores a program. A zero ID is replaced by a new UUID; the
// stored ID is returned.
func (db *DB) InsertProgram(ctx context.Context, rec ProgramRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	q, err := json.Marshal(rec.Questionnaire)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding questionnaire: %w", err)
	}
	p, err := json.Marshal(rec.Program)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding program: %w", err)
	}
	warnings := rec.Warnings
	if warnings == nil {
		warnings = []models.Warning{}
	}
	w, err := json.Marshal(warnings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding warnings: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO programs (id, user_id, split, days_per_week, duration, total_weeks,
		 questionnaire, program, warnings, low_fill, repeats, fallback_used)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.UserID, string(rec.Program.Split), rec.Program.DaysPerWeek,
		string(rec.Program.Duration), rec.Program.TotalWeeks,
		q, p, w, rec.LowFill, rec.Repeats, rec.FallbackUsed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting program: %w", err)
	}
	return rec.ID, nil
}

// GetProgram returns one program, or ErrNotFound.
func (db *DB) GetProgram(ctx context.Context, id uuid.UUID) (*ProgramRecord, error) {
	var (
		rec        ProgramRecord
		q, p, warn []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, questionnaire, program, warnings, low_fill, repeats, fallback_used
		 FROM programs WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.UserID, &rec.CreatedAt, &q, &p, &warn, &rec.LowFill, &rec.Repeats, &rec.FallbackUsed)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying program %s: %w", id, err)
	}

	if err := json.Unmarshal(q, &rec.Questionnaire); err != nil {
		return nil, fmt.Errorf("decoding questionnaire: %w", err)
	}
	if err := json.Unmarshal(p, &rec.Program); err != nil {
		return nil, fmt.Errorf("decoding program: %w", err)
	}
	if err := json.Unmarshal(warn, &rec.Warnings); err != nil {
		return nil, fmt.Errorf("decoding warnings: %w", err)
	}
	return &rec, nil
}

// ListPrograms returns a user's most recent programs, newest first.
func (db *DB) ListPrograms(ctx context.Context, userID, limit int) ([]ProgramSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, split, days_per_week, duration, jsonb_array_length(warnings), fallback_used
		 FROM programs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []ProgramSummary
	for rows.Next() {
		var s ProgramSummary
		var split string
		if err := rows.Scan(&s.ID, &s.CreatedAt, &split, &s.DaysPerWeek, &s.Duration, &s.Warnings, &s.FallbackUsed); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		s.Split = models.SplitType(split)
		result = append(result, s)
	}
	return result, rows.Err()
}
