package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerationLog records the outcome of one generation request.
type GenerationLog struct {
	ID           int64      `json:"id"`
	UserID       int        `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	ProgramID    *uuid.UUID `json:"program_id"`
	Status       string     `json:"status"`
	Split        string     `json:"split"`
	DaysPerWeek  int        `json:"days_per_week"`
	Duration     string     `json:"duration"`
	Sessions     int        `json:"sessions"`
	Exercises    int        `json:"exercises"`
	Warnings     int        `json:"warnings"`
	FallbackUsed bool       `json:"fallback_used"`
	CacheHit     bool       `json:"cache_hit"`
	DurationMs   *int       `json:"duration_ms"`
	ErrorMessage *string    `json:"error_message"`
}

// Generation log statuses.
const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
	StatusError    = "error"
)

// InsertGenerationLog creates a log entry and returns its ID.
func (db *DB) InsertGenerationLog(ctx context.Context, log GenerationLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO generation_logs (user_id, program_id, status, split, days_per_week, duration,
		 sessions, exercises, warnings, fallback_used, cache_hit, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 RETURNING id`,
		log.UserID, log.ProgramID, log.Status, log.Split, log.DaysPerWeek, log.Duration,
		log.Sessions, log.Exercises, log.Warnings, log.FallbackUsed, log.CacheHit,
		log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting generation log: %w", err)
	}
	return id, nil
}

// QueryGenerationLogs returns the most recent generation logs for a user.
func (db *DB) QueryGenerationLogs(ctx context.Context, userID, limit int) ([]GenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, program_id, status, COALESCE(split, ''), days_per_week,
		 COALESCE(duration, ''), sessions, exercises, warnings, fallback_used, cache_hit,
		 duration_ms, error_message
		 FROM generation_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying generation logs: %w", err)
	}
	defer rows.Close()

	var result []GenerationLog
	for rows.Next() {
		var l GenerationLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.ProgramID, &l.Status, &l.Split,
			&l.DaysPerWeek, &l.Duration, &l.Sessions, &l.Exercises, &l.Warnings,
			&l.FallbackUsed, &l.CacheHit, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning generation log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
