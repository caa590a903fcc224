package logging_test

import (
	"context"
	"testing"

	"talktrack/internal/logging"
	"talktrack/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewDefaultsToConsole(t *testing.T) {
	logger, err := logging.New(logging.Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger")
	}
}

func TestWithContextAttachesRunFields(t *testing.T) {
	ctx := services.WithRunID(context.Background(), 7)
	ctx = services.WithStage(ctx, "track")

	fields := logging.ContextFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 context fields, got %d", len(fields))
	}
	if fields[0].Key != logging.FieldRunID {
		t.Fatalf("unexpected first field key: %s", fields[0].Key)
	}
	if fields[1].Key != logging.FieldStage || fields[1].Value.String() != "track" {
		t.Fatalf("unexpected stage field: %v", fields[1])
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := logging.WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("expected fallback logger")
	}
	logger.Info("noop")
}
