package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitLevelParsing(t *testing.T) {
	if err := Init("test", "debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level requested but debug logging disabled")
	}

	if err := Init("test", "WARN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("warn level requested but info logging still enabled")
	}

	// Unknown and empty levels fall back to info.
	for _, level := range []string{"bogus", "", "  "} {
		if err := Init("test", level); err != nil {
			t.Fatalf("level %q: unexpected error: %v", level, err)
		}
		if Log.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("level %q: debug enabled, want info fallback", level)
		}
		if !Log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("level %q: info disabled, want info fallback", level)
		}
	}
}
