package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct{ playing, rewound bool }

func (h *handle) Play() error   { h.playing = true; return nil }
func (h *handle) Pause()        { h.playing, h.rewound = false, true }
func (h *handle) Playing() bool { return h.playing }
func (h *handle) Close() error  { return nil }

func TestToggle(t *testing.T) {
	h := &handle{}
	require.NoError(t, Toggle(h))
	assert.True(t, h.playing)

	require.NoError(t, Toggle(h))
	assert.False(t, h.playing)
	assert.True(t, h.rewound)
}
