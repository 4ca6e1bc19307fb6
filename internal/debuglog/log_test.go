package debuglog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, Close())
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestLevelNames(t *testing.T) {
	for level, name := range map[LogLevel]string{
		LevelDebug:   "DEBUG",
		LevelInfo:    "INFO",
		LevelWarn:    "WARN",
		LevelError:   "ERROR",
		LevelOff:     "OFF",
		LogLevel(42): "UNKNOWN",
	} {
		assert.Equal(t, name, level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"WARNING", LevelWarn},
		{"warn", LevelWarn},
		{"error", LevelError},
		{" off ", LevelOff},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestLevelThreshold(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mymeals.log")
	require.NoError(t, Setup(LevelWarn, logPath))
	assert.Equal(t, LevelWarn, GetLevel())

	Debugf("GET %s", "search.php?s=chicken")
	Infof("loaded %d meals", 12)
	Warnf("search failed: %v", "timeout")
	Errorf("loading meal details: %v", "HTTP error: 500")

	out := readLog(t, logPath)
	assert.NotContains(t, out, "search.php")
	assert.NotContains(t, out, "loaded 12 meals")
	assert.Contains(t, out, "search failed: timeout")
	assert.Contains(t, out, "HTTP error: 500")
	assert.Contains(t, out, "mymeals")
}

func TestOffWritesNothing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mymeals.log")
	require.NoError(t, Setup(LevelOff, logPath))
	assert.Equal(t, LevelOff, GetLevel())

	Errorf("never written")
	require.NoError(t, Close())

	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err), "no file is created while logging is off")
}

func TestWithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mymeals.log")
	require.NoError(t, Setup(LevelDebug, logPath))

	WithFields(map[string]interface{}{
		"meal_id": "52977",
		"query":   "corba",
	}).Errorf("loading meal details: %v", "boom")

	out := readLog(t, logPath)
	assert.Contains(t, out, "loading meal details: boom")
	assert.Contains(t, out, "meal_id")
	assert.Contains(t, out, "52977")
	assert.Contains(t, out, "corba")
}

func TestSetLevelAtRuntime(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mymeals.log")
	require.NoError(t, Setup(LevelError, logPath))

	Infof("before")
	SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, GetLevel())
	Infof("after")

	out := readLog(t, logPath)
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestSetupWithRotationCreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "logs", "mymeals.log")
	rot := Rotation{MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 7}

	require.NoError(t, SetupWithRotation(LevelInfo, rot, logPath))
	Infof("rotating sink ready")

	assert.Contains(t, readLog(t, logPath), "rotating sink ready")
}

func TestSetupFailsOnUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Setup(LevelInfo, filepath.Join(blocker, "mymeals.log"))
	assert.Error(t, err)
	require.NoError(t, Close())
}

func TestLoggingAfterCloseIsNoop(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mymeals.log")
	require.NoError(t, Setup(LevelInfo, logPath))
	require.NoError(t, Close())

	assert.NotPanics(t, func() {
		Infof("dropped")
		WithFields(map[string]interface{}{"k": "v"}).Warnf("dropped")
	})
}
