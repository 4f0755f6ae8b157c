package telemetry

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Info("upload.accepted", map[string]any{
		"document_id": "doc-1",
		"size_bytes":  int64(42),
		"err":         errors.New("boom"),
	})

	entries := logs.FilterMessage("upload.accepted").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["document_id"] != "doc-1" {
		t.Fatalf("unexpected document_id: %#v", ctx["document_id"])
	}
	if ctx["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %#v", ctx["err"])
	}
}

func TestLevelsRespectCore(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	Info("quiet", nil)
	Warn("loud", nil)
	Error("louder", nil)

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries at warn+, got %d", logs.Len())
	}
}
