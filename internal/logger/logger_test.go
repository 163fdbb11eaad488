package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local) }

func TestLogWritesFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "editor.txt")
	l := New(path)
	l.now = fixed
	l.Log("hello")
	l.Log("world")

	assert.Equal(t, []string{"[2024-05-01 09:30:00] hello", "[2024-05-01 09:30:00] world"}, l.Lines())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-05-01 09:30:00] hello\n[2024-05-01 09:30:00] world\n", string(data))
}

func TestSlogThroughLogger(t *testing.T) {
	l := New("")
	l.now = fixed
	log := l.Slog(slog.LevelInfo)
	log.Debug("hidden")
	log.Info("object created", "id", "object-1")

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], `level=INFO msg="object created" id=object-1`), lines[0])
}

func TestHistoryBounded(t *testing.T) {
	l := New("")
	for range maxLines + 10 {
		l.Log("x")
	}
	assert.Len(t, l.Lines(), maxLines)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	log := Discard()
	assert.Same(t, log, OrDiscard(log))
}
