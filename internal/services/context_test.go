package services_test

import (
	"context"
	"testing"

	"talktrack/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, 42)
	ctx = services.WithStage(ctx, "score")
	ctx = services.WithVideo(ctx, "interview.mp4")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "score" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if video, ok := services.VideoFromContext(ctx); !ok || video != "interview.mp4" {
		t.Fatalf("unexpected video: %v %v", video, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}
