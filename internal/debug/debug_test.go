package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "FPS: 60", FormatFPS(60))
	assert.Equal(t, "Mem: 1.50 MiB", FormatMem(3<<19))
}

func TestVisible(t *testing.T) {
	d := New()
	assert.False(t, d.Visible())
	d.ShowStats = true
	assert.True(t, d.Visible())
}
