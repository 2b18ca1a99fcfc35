package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps programs and generation logs in process. It backs tests and
// the database-less demo mode; contents are lost on exit.
type Memory struct {
	mu       sync.RWMutex
	programs []ProgramRecord
	logs     []GenerationLog
	users    map[string]int
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now, users: make(map[string]int)}
}

// GetOrCreateUser assigns ids in first-seen order starting at 1.
func (m *Memory) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.users[login]; ok {
		return id, nil
	}
	id := len(m.users) + 1
	m.users[login] = id
	return id, nil
}

func (m *Memory) InsertProgram(_ context.Context, rec ProgramRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.CreatedAt = m.now()
	m.programs = append(m.programs, rec)
	return rec.ID, nil
}

func (m *Memory) GetProgram(_ context.Context, id uuid.UUID) (*ProgramRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.programs {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListPrograms(_ context.Context, userID, limit int) ([]ProgramSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ProgramSummary
	for _, p := range slices.Backward(m.programs) {
		if p.UserID != userID {
			continue
		}
		out = append(out, ProgramSummary{
			ID:           p.ID,
			CreatedAt:    p.CreatedAt,
			Split:        p.Program.Split,
			DaysPerWeek:  p.Program.DaysPerWeek,
			Duration:     string(p.Program.Duration),
			Warnings:     len(p.Warnings),
			FallbackUsed: p.FallbackUsed,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) InsertGenerationLog(_ context.Context, log GenerationLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = int64(len(m.logs) + 1)
	log.CreatedAt = m.now()
	m.logs = append(m.logs, log)
	return log.ID, nil
}

func (m *Memory) QueryGenerationLogs(_ context.Context, userID, limit int) ([]GenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []GenerationLog
	for _, l := range slices.Backward(m.logs) {
		if l.UserID != userID {
			continue
		}
		out = append(out, l)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) GetGenerationStats(_ context.Context, userID int) (*GenerationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &GenerationStats{}
	bySplit := map[string]*SplitStat{}
	var order []string
	for _, p := range m.programs {
		if p.UserID != userID {
			continue
		}
		stats.TotalPrograms++
		if stats.EarliestProgram == nil || p.CreatedAt.Before(*stats.EarliestProgram) {
			t := p.CreatedAt
			stats.EarliestProgram = &t
		}
		if stats.LatestProgram == nil || p.CreatedAt.After(*stats.LatestProgram) {
			t := p.CreatedAt
			stats.LatestProgram = &t
		}
		split := string(p.Program.Split)
		s, ok := bySplit[split]
		if !ok {
			s = &SplitStat{Split: split}
			bySplit[split] = s
			order = append(order, split)
		}
		// AvgWarnings holds the running sum until the end.
		s.Count++
		s.AvgWarnings += float64(len(p.Warnings))
		if p.LowFill {
			s.LowFillCount++
		}
	}

	var totalMs, timed int
	for _, l := range m.logs {
		if l.UserID != userID {
			continue
		}
		stats.TotalGenerations++
		if l.FallbackUsed {
			stats.FallbackCount++
		}
		if l.Status == StatusError {
			stats.ErrorCount++
		}
		if l.CacheHit {
			stats.CacheHits++
		}
		if l.DurationMs != nil {
			totalMs += *l.DurationMs
			timed++
		}
	}
	if timed > 0 {
		avg := float64(totalMs) / float64(timed)
		stats.AvgDurationMs = &avg
	}

	for _, split := range order {
		s := bySplit[split]
		s.AvgWarnings /= float64(s.Count)
		stats.ProgramsBySplit = append(stats.ProgramsBySplit, *s)
	}
	slices.SortStableFunc(stats.ProgramsBySplit, func(a, b SplitStat) int {
		return int(b.Count - a.Count)
	})
	return stats, nil
}
