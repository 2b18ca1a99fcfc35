package observability

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestInitTracingDisabled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	shutdown, err := InitTracing(context.Background(), log, TracingConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown = %v, want nil", err)
	}
}

func TestInitTracingExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	shutdown, err := InitTracing(context.Background(), log, TracingConfig{
		Enabled:     true,
		ServiceName: "trainplan-test",
		Output:      &buf,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, span := Tracer().Start(context.Background(), "program.generate")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "program.generate") {
		t.Errorf("exported spans missing program.generate: %s", buf.String())
	}
}
