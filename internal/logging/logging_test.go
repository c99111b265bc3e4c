package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		mode  string
		level string
		want  zapcore.Level
	}{
		{"production", "", zapcore.InfoLevel},
		{"prod", "warn", zapcore.WarnLevel},
		{"development", "debug", zapcore.DebugLevel},
		{"", "error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		log, err := New(tt.mode, tt.level)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tt.mode, tt.level, err)
		}
		if !log.Core().Enabled(tt.want) {
			t.Fatalf("New(%q, %q): level %v not enabled", tt.mode, tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
			t.Fatalf("New(%q, %q): level below %v enabled", tt.mode, tt.level, tt.want)
		}
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New("production", "loud"); err == nil {
		t.Fatal("New with unknown level succeeded")
	}
}
