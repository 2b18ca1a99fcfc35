package storage

import (
	"context"
	"fmt"
	"time"
)

// GenerationStats holds aggregate statistics about a user's programs and
// generation runs.
type GenerationStats struct {
	TotalPrograms    int64       `json:"total_programs"`
	TotalGenerations int64       `json:"total_generations"`
	FallbackCount    int64       `json:"fallback_count"`
	ErrorCount       int64       `json:"error_count"`
	CacheHits        int64       `json:"cache_hits"`
	AvgDurationMs    *float64    `json:"avg_duration_ms"`
	EarliestProgram  *time.Time  `json:"earliest_program"`
	LatestProgram    *time.Time  `json:"latest_program"`
	ProgramsBySplit  []SplitStat `json:"programs_by_split"`
}

// SplitStat holds summary stats for a single split.
type SplitStat struct {
	Split        string  `json:"split"`
	Count        int64   `json:"count"`
	AvgWarnings  float64 `json:"avg_warnings"`
	LowFillCount int64   `json:"low_fill_count"`
}

// GetGenerationStats returns aggregate statistics for a user.
func (db *DB) GetGenerationStats(ctx context.Context, userID int) (*GenerationStats, error) {
	stats := &GenerationStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM programs WHERE user_id = $1`, userID,
	).Scan(&stats.TotalPrograms, &stats.EarliestProgram, &stats.LatestProgram)
	if err != nil {
		return nil, fmt.Errorf("counting programs: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE fallback_used),
		        COUNT(*) FILTER (WHERE status = 'error'),
		        COUNT(*) FILTER (WHERE cache_hit),
		        AVG(duration_ms)::float8
		 FROM generation_logs WHERE user_id = $1`, userID,
	).Scan(&stats.TotalGenerations, &stats.FallbackCount, &stats.ErrorCount, &stats.CacheHits, &stats.AvgDurationMs)
	if err != nil {
		return nil, fmt.Errorf("counting generations: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT split, COUNT(*), AVG(jsonb_array_length(warnings))::float8,
		        COUNT(*) FILTER (WHERE low_fill)
		 FROM programs
		 WHERE user_id = $1
		 GROUP BY split
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying programs by split: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SplitStat
		if err := rows.Scan(&s.Split, &s.Count, &s.AvgWarnings, &s.LowFillCount); err != nil {
			return nil, fmt.Errorf("scanning split stat: %w", err)
		}
		stats.ProgramsBySplit = append(stats.ProgramsBySplit, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
