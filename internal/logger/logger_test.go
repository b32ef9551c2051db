package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNopBeforeInit(t *testing.T) {
	Reset()
	assert.NotPanics(t, func() {
		Info("dropped", zap.Int("n", 1))
		Sugar.Debugf("dropped %d", 2)
	})
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()
	t.Cleanup(Reset)

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{
			level:    "error",
			expected: []string{"ERROR"},
			excluded: []string{"WARN", "INFO", "DEBUG"},
		},
		{
			level:    "warn",
			expected: []string{"ERROR", "WARN"},
			excluded: []string{"INFO", "DEBUG"},
		},
		{
			level:    "info",
			expected: []string{"ERROR", "WARN", "INFO"},
			excluded: []string{"DEBUG"},
		},
		{
			level:    "debug",
			expected: []string{"ERROR", "WARN", "INFO", "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")

			err := InitWithOptions(Options{
				Level: tt.level,
				File:  FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1},
			})
			require.NoError(t, err)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			require.NoError(t, err)
			logContent := string(content)

			for _, exp := range tt.expected {
				assert.Contains(t, logContent, exp)
			}
			for _, exc := range tt.excluded {
				assert.NotContains(t, logContent, exc)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	require.NoError(t, InitWithOptions(Options{Level: "info", Format: "json", Console: &buf}))

	Info("surface added", zap.String("object", "bivar_normal_curve"), zap.Int("vertices", 2601))
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "surface added", entry["msg"])
	assert.Equal(t, "bivar_normal_curve", entry["object"])
	assert.EqualValues(t, 2601, entry["vertices"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestInvalidOptions(t *testing.T) {
	t.Cleanup(Reset)

	assert.Error(t, InitWithOptions(Options{Level: "verbose"}))
	assert.Error(t, InitWithOptions(Options{Format: "xml", Console: &bytes.Buffer{}}))
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/densurf.log")

	assert.Equal(t, FileConfig{
		Path:       "/tmp/densurf.log",
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}, cfg)
}
