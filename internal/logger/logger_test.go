package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Environments(t *testing.T) {
	tests := []struct {
		env   string
		level zapcore.Level
	}{
		{"prod", zapcore.InfoLevel},
		{"local", zapcore.DebugLevel},
		{"docker", zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := NewLogger(tt.env, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !l.Core().Enabled(tt.level) {
				t.Errorf("expected %s enabled", tt.level)
			}
			if tt.level == zapcore.InfoLevel && l.Core().Enabled(zapcore.DebugLevel) {
				t.Error("debug should be disabled in prod")
			}
		})
	}
}

func TestNewLogger_Overrides(t *testing.T) {
	l, err := NewLogger("local", Options{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	if _, err := NewLogger("staging", Options{}); err == nil {
		t.Error("expected error for unknown environment")
	}
	if _, err := NewLogger("prod", Options{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
	if _, err := NewLogger("prod", Options{Format: "xml"}); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}

	def := zap.NewNop()
	if FromContextOr(context.Background(), def) != def {
		t.Error("expected fallback logger")
	}
	if FromContextOr(ctx, def) != l {
		t.Error("stored logger should win over fallback")
	}
}
