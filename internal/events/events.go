// Package events publishes domain events about generated programs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/claude/trainplan/internal/observability"
)

// TypeProgramGenerated is the event_type header of ProgramGenerated.
const TypeProgramGenerated = "program.generated"

// ProgramGenerated is emitted after a program is persisted.
type ProgramGenerated struct {
	EventID      uuid.UUID `json:"event_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	ProgramID    uuid.UUID `json:"program_id"`
	UserID       int       `json:"user_id"`
	Split        string    `json:"split"`
	DaysPerWeek  int       `json:"days_per_week"`
	Duration     string    `json:"duration"`
	Exercises    int       `json:"exercises"`
	Warnings     []string  `json:"warnings"`
	LowFill      bool      `json:"low_fill"`
	Repeats      bool      `json:"repeats"`
	FallbackUsed bool      `json:"fallback_used"`
	CacheHit     bool      `json:"cache_hit"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishProgramGenerated(ctx context.Context, evt ProgramGenerated) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) PublishProgramGenerated(context.Context, ProgramGenerated) error { return nil }
func (Nop) Close() error                                                    { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events to a single topic, keyed by program id so every
// event about one program lands on one partition.
type Kafka struct {
	writer messageWriter
	topic  string
	log    *slog.Logger
}

var (
	_ Publisher = (*Kafka)(nil)
	_ Publisher = Nop{}
)

// NewKafka creates a synchronous writer requiring acks from all replicas.
func NewKafka(brokers []string, topic string, log *slog.Logger) *Kafka {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafka(w, topic, log)
}

func newKafka(w messageWriter, topic string, log *slog.Logger) *Kafka {
	return &Kafka{writer: w, topic: topic, log: log}
}

func (k *Kafka) PublishProgramGenerated(ctx context.Context, evt ProgramGenerated) error {
	if evt.EventID == uuid.Nil {
		evt.EventID = uuid.New()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if evt.Warnings == nil {
		evt.Warnings = []string{}
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.ProgramID.String()),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(TypeProgramGenerated)},
			{Key: "event_id", Value: []byte(evt.EventID.String())},
		},
	}
	err = k.writer.WriteMessages(ctx, msg)
	observability.RecordEventPublished(err)
	if err != nil {
		return fmt.Errorf("publishing %s to %s: %w", TypeProgramGenerated, k.topic, err)
	}
	k.log.Debug("event published", "type", TypeProgramGenerated, "program_id", evt.ProgramID, "topic", k.topic)
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
