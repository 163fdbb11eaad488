// Package audio plays Audio objects: beep tracks mixed onto the speaker.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/h2non/filetype"

	"scene-editor/internal/media"
)

// SampleRate is the mixer rate every track is resampled to.
const SampleRate = beep.SampleRate(44100)

// ErrFormat is returned for audio data that is not WAV, MP3 or Ogg Vorbis.
var ErrFormat = errors.New("audio: unsupported format")

var _ media.Audio = (*Track)(nil)

// Player mixes every open track onto the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer returns a player. Tracks can be opened before Initialize; they stay silent
// until the speaker runs.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Initialize sets up the speaker.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("audio: speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences every track.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

type readSeekNopCloser struct{ *bytes.Reader }

func (readSeekNopCloser) Close() error { return nil }

// Open decodes data and registers a paused track.
func (p *Player) Open(data []byte) (*Track, error) {
	src, format, err := decode(data)
	if err != nil {
		return nil, err
	}
	t := &Track{src: src}
	var s beep.Streamer = &t.tail
	t.tail.s = src
	if format.SampleRate != SampleRate {
		s = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	t.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	speaker.Lock()
	p.mixer.Add(t.ctrl)
	speaker.Unlock()
	return t, nil
}

func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := readSeekNopCloser{bytes.NewReader(data)}
	kind, _ := filetype.Match(data)
	var (
		s   beep.StreamSeekCloser
		f   beep.Format
		err error
	)
	switch kind.Extension {
	case "wav":
		s, f, err = wav.Decode(rc)
	case "mp3":
		s, f, err = mp3.Decode(rc)
	case "ogg":
		s, f, err = vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrFormat, kind.MIME.Value)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", kind.Extension, err)
	}
	return s, f, nil
}

// tail keeps a finished track in the mixer by padding it with silence.
type tail struct {
	s     beep.Streamer
	ended bool
}

func (t *tail) Stream(samples [][2]float64) (int, bool) {
	n := 0
	if !t.ended {
		var ok bool
		n, ok = t.s.Stream(samples)
		if !ok || n < len(samples) {
			t.ended = true
		}
	}
	clear(samples[n:])
	return len(samples), true
}

func (t *tail) Err() error { return nil }

// Track is a decoded audio clip on the mixer.
type Track struct {
	src    beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	tail   tail
	closed bool
}

func (t *Track) Play() error {
	speaker.Lock()
	defer speaker.Unlock()
	if t.closed {
		return errors.New("audio: track closed")
	}
	if err := t.src.Seek(0); err != nil {
		return fmt.Errorf("audio: rewind: %w", err)
	}
	t.tail.ended = false
	t.ctrl.Paused = false
	return nil
}

func (t *Track) Pause() {
	speaker.Lock()
	defer speaker.Unlock()
	t.ctrl.Paused = true
	if !t.closed {
		_ = t.src.Seek(0)
	}
}

func (t *Track) Playing() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return !t.ctrl.Paused && !t.tail.ended
}

// Close stops the track and releases the decoder. The mixer drops the emptied
// controller on its next pass.
func (t *Track) Close() error {
	speaker.Lock()
	defer speaker.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.ctrl.Paused = true
	t.ctrl.Streamer = nil
	return t.src.Close()
}
