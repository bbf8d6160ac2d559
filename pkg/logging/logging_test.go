package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("DEBFORGE_STATE_DIR", tempDir)

			SetupLogger(tt.verbosity)

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("SetupLogger(%d) set level to %v, want %v",
					tt.verbosity, zerolog.GlobalLevel(), tt.wantLevel)
			}

			logPath := filepath.Join(tempDir, "debforge.log")
			if _, err := os.Stat(logPath); os.IsNotExist(err) {
				t.Errorf("Log file was not created at %s", logPath)
			}
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	t.Run("with DEBFORGE_STATE_DIR", func(t *testing.T) {
		t.Setenv("DEBFORGE_STATE_DIR", "/custom/state")
		got := getLogFilePath()
		want := filepath.Join("/custom/state", "debforge.log")
		if got != want {
			t.Errorf("getLogFilePath() = %s, want %s", got, want)
		}
	})

	t.Run("falls back to xdg state home", func(t *testing.T) {
		t.Setenv("DEBFORGE_STATE_DIR", "")
		got := getLogFilePath()
		if filepath.Base(got) != "debforge.log" {
			t.Errorf("getLogFilePath() = %s, want a debforge.log path", got)
		}
	})
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("manifest")
	// A contextualized logger should be usable without panicking
	logger.Debug().Msg("test message")
}
