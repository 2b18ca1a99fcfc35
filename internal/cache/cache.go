// Package cache stores generation results keyed by a questionnaire
// fingerprint so identical submissions skip the engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
)

const keyPrefix = "trainplan:program:"

// Cache is a best-effort result store. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*program.Result, error)
	Set(ctx context.Context, key string, res *program.Result) error
}

// Fingerprint hashes the fields of q that influence generation. List order
// and case are ignored.
func Fingerprint(q models.Questionnaire) string {
	norm := func(values []string) []string {
		out := make([]string, 0, len(values))
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				out = append(out, v)
			}
		}
		slices.Sort(out)
		return slices.Compact(out)
	}
	canonical := struct {
		Days        int      `json:"d"`
		Duration    string   `json:"t"`
		Experience  string   `json:"x"`
		Equipment   []string `json:"e"`
		Attachments []string `json:"a"`
		Specific    []string `json:"s"`
		Priority    []string `json:"p"`
		Goals       []string `json:"g"`
	}{
		Days:        q.DaysPerWeek,
		Duration:    strings.ToLower(strings.TrimSpace(q.SessionDuration)),
		Experience:  strings.ToLower(strings.TrimSpace(q.Experience)),
		Equipment:   norm(q.Equipment),
		Attachments: norm(q.Attachments),
		Specific:    norm(q.SpecificEquipment),
		Priority:    norm(q.PriorityMuscles),
		Goals:       norm(q.Goals),
	}
	raw, _ := json.Marshal(canonical)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Nop never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) (*program.Result, error) { return nil, nil }
func (Nop) Set(context.Context, string, *program.Result) error   { return nil }

// Redis stores results as JSON with a TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

var (
	_ Cache = (*Redis)(nil)
	_ Cache = Nop{}
)

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, addr string, ttl time.Duration, log *slog.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl, log: log.With("component", "cache")}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*program.Result, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached program: %w", err)
	}
	return decode(raw)
}

func (r *Redis) Set(ctx context.Context, key string, res *program.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding cached program: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing cached program: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func decode(raw []byte) (*program.Result, error) {
	var res program.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decoding cached program: %w", err)
	}
	return &res, nil
}
