package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		t.Run(env, func(t *testing.T) {
			l, err := New(env, "")
			if err != nil {
				t.Fatalf("New(%q): %v", env, err)
			}
			if l == nil {
				t.Fatal("nil logger")
			}
		})
	}
}

func TestNew_UnknownEnv(t *testing.T) {
	if _, err := New("staging", ""); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNew_LevelOverride(t *testing.T) {
	l, err := New("prod", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}

	if _, err := New("prod", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Fatal("expected no-op logger")
	}

	want := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), want)
	if got := FromContext(ctx); got != want {
		t.Error("logger not carried by context")
	}
}

func TestWithRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, l := WithRequest(context.Background(), zap.New(core), "req-1")

	if FromContext(ctx) != l {
		t.Fatal("request logger not stored in context")
	}
	FromContext(ctx).Info("resolved")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
		t.Errorf("request_id = %v, want req-1", got)
	}
}
