package analyses

import (
	"context"
	"testing"
)

func TestLogFieldsCarryPipelineTags(t *testing.T) {
	ctx := WithPipeline(context.Background(), "req-7", "chat")
	fields := logFields(ctx, "user-1", map[string]any{"stage": "llm"})

	want := map[string]any{"stage": "llm", "user_id": "user-1", "request_id": "req-7", "operation": "chat"}
	for k, v := range want {
		if fields[k] != v {
			t.Fatalf("field %s: expected %v, got %v", k, v, fields[k])
		}
	}
}

func TestLogFieldsWithoutPipeline(t *testing.T) {
	extra := map[string]any{"stage": "ocr"}
	fields := logFields(context.Background(), "user-1", extra)
	if _, ok := fields["request_id"]; ok {
		t.Fatal("expected no request_id without pipeline tags")
	}
	if _, ok := extra["user_id"]; ok {
		t.Fatal("extra must not be mutated")
	}
}
